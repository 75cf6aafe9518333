package models

import (
	"time"
)

// TermRef is one term attached to a post, flattened for filtering. The
// attribute paths the filter grammar uses (terms.taxonomy, terms.term_id,
// terms.slug, terms.name, terms.term_taxonomy_id) map onto this shape.
type TermRef struct {
	Taxonomy       string `json:"taxonomy" bson:"taxonomy"`
	TermID         int64  `json:"term_id" bson:"term_id"`
	TermTaxonomyID int64  `json:"term_taxonomy_id" bson:"term_taxonomy_id"`
	Slug           string `json:"slug" bson:"slug"`
	Name           string `json:"name" bson:"name"`
}

// PostDates holds the decomposed date columns addressable as date.<column>.
type PostDates struct {
	PostDate     string `json:"post_date" bson:"post_date"`
	PostModified string `json:"post_modified" bson:"post_modified"`
	Year         int    `json:"year" bson:"year"`
	Month        int    `json:"month" bson:"month"`
	Day          int    `json:"day" bson:"day"`
}

// Post is a content item as stored in the content collection.
type Post struct {
	ID           int64                  `json:"ID" bson:"_id"`
	PostTitle    string                 `json:"post_title" bson:"post_title"`
	PostContent  string                 `json:"post_content" bson:"post_content"`
	PostExcerpt  string                 `json:"post_excerpt" bson:"post_excerpt"`
	PostType     string                 `json:"post_type" bson:"post_type"`
	PostStatus   string                 `json:"post_status" bson:"post_status"`
	PostName     string                 `json:"post_name" bson:"post_name"`
	PostAuthor   int64                  `json:"post_author" bson:"post_author"`
	PostDate     time.Time              `json:"post_date" bson:"post_date"`
	PostModified time.Time              `json:"post_modified" bson:"post_modified"`
	Permalink    string                 `json:"permalink" bson:"permalink"`
	Terms        []TermRef              `json:"terms" bson:"terms"`
	Metas        map[string]interface{} `json:"metas" bson:"metas"`
}

// PostDocument is the shape pushed to the search index. Terms, metas and
// dates are nested under the attribute prefixes the filter grammar targets.
type PostDocument struct {
	ID          int64                  `json:"id"`
	PostTitle   string                 `json:"post_title"`
	PostContent string                 `json:"post_content"`
	PostExcerpt string                 `json:"post_excerpt"`
	PostType    string                 `json:"post_type"`
	PostStatus  string                 `json:"post_status"`
	PostName    string                 `json:"post_name"`
	PostAuthor  int64                  `json:"post_author"`
	PostDate    int64                  `json:"post_date"`
	Permalink   string                 `json:"permalink"`
	Terms       []TermRef              `json:"terms"`
	Metas       map[string]interface{} `json:"metas"`
	Date        PostDates              `json:"date"`
}

// NewPostDocument flattens a stored post into its index representation.
// Only metas on the indexed allow-list are carried into the document.
func NewPostDocument(post *Post, indexedMetaKeys []string) *PostDocument {
	doc := &PostDocument{
		ID:          post.ID,
		PostTitle:   post.PostTitle,
		PostContent: post.PostContent,
		PostExcerpt: post.PostExcerpt,
		PostType:    post.PostType,
		PostStatus:  post.PostStatus,
		PostName:    post.PostName,
		PostAuthor:  post.PostAuthor,
		PostDate:    post.PostDate.Unix(),
		Permalink:   post.Permalink,
		Terms:       post.Terms,
		Metas:       map[string]interface{}{},
		Date: PostDates{
			PostDate:     post.PostDate.Format("2006-01-02 15:04:05"),
			PostModified: post.PostModified.Format("2006-01-02 15:04:05"),
			Year:         post.PostDate.Year(),
			Month:        int(post.PostDate.Month()),
			Day:          post.PostDate.Day(),
		},
	}

	for _, key := range indexedMetaKeys {
		if v, ok := post.Metas[key]; ok {
			doc.Metas[key] = v
		}
	}

	return doc
}
