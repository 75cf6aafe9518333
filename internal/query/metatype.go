package query

// MetaType is the declared value type of a meta_query clause. It governs
// whether values are rendered as bare numbers or quoted strings.
type MetaType string

const (
	MetaTypeNumeric  MetaType = "NUMERIC"
	MetaTypeBinary   MetaType = "BINARY"
	MetaTypeChar     MetaType = "CHAR"
	MetaTypeDate     MetaType = "DATE"
	MetaTypeDatetime MetaType = "DATETIME"
	MetaTypeDecimal  MetaType = "DECIMAL"
	MetaTypeSigned   MetaType = "SIGNED"
	MetaTypeTime     MetaType = "TIME"
	MetaTypeUnsigned MetaType = "UNSIGNED"
)

// DefaultMetaType is the fallback when a clause carries no type key.
const DefaultMetaType = MetaTypeChar

var knownMetaTypes = map[MetaType]bool{
	MetaTypeNumeric: true, MetaTypeBinary: true, MetaTypeChar: true,
	MetaTypeDate: true, MetaTypeDatetime: true, MetaTypeDecimal: true,
	MetaTypeSigned: true, MetaTypeTime: true, MetaTypeUnsigned: true,
}

// ResolveMetaType returns raw as a MetaType when it matches a known value,
// and the default CHAR otherwise.
func ResolveMetaType(raw string) MetaType {
	if mt := MetaType(raw); knownMetaTypes[mt] {
		return mt
	}
	return DefaultMetaType
}

// Numeric reports whether values of this type are emitted unquoted.
func (t MetaType) Numeric() bool {
	switch t {
	case MetaTypeNumeric, MetaTypeDecimal, MetaTypeSigned, MetaTypeUnsigned:
		return true
	}
	return false
}

// Temporal reports whether this is a date/time type.
func (t MetaType) Temporal() bool {
	switch t {
	case MetaTypeDate, MetaTypeDatetime, MetaTypeTime:
		return true
	}
	return false
}

// TaxonomyField is the term field a tax_query clause matches against.
type TaxonomyField string

const (
	FieldTermID         TaxonomyField = "term_id"
	FieldSlug           TaxonomyField = "slug"
	FieldName           TaxonomyField = "name"
	FieldTermTaxonomyID TaxonomyField = "term_taxonomy_id"
)

// DefaultTaxonomyField is the fallback when a clause carries no field key.
const DefaultTaxonomyField = FieldTermID

var knownTaxonomyFields = map[TaxonomyField]bool{
	FieldTermID: true, FieldSlug: true, FieldName: true, FieldTermTaxonomyID: true,
}

// ResolveTaxonomyField returns raw as a TaxonomyField when it matches a known
// value, and the default term_id otherwise.
func ResolveTaxonomyField(raw string) TaxonomyField {
	if f := TaxonomyField(raw); knownTaxonomyFields[f] {
		return f
	}
	return DefaultTaxonomyField
}
