// Package wiki wraps the wiki SDK behind the tool-calling surface.
package wiki

import (
	"context"

	goconfluence "github.com/virtomize/confluence-go-api"

	"github.com/nimbleshop/nimbleshop/internal/tools"
)

// wikiAPI is the slice of the SDK the tools use.
type wikiAPI interface {
	GetContentByID(id string, query goconfluence.ContentQuery) (*goconfluence.Content, error)
	Search(query goconfluence.SearchQuery) (*goconfluence.Search, error)
}

// Page is the reshaped wiki page record.
type Page struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Body      string `json:"body,omitempty"`
	Version   int    `json:"version,omitempty"`
	UpdatedBy string `json:"updated_by,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
	Link      string `json:"link,omitempty"`
}

// SearchHit is one search result row.
type SearchHit struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Excerpt string `json:"excerpt,omitempty"`
	Link    string `json:"link,omitempty"`
}

// Toolset holds the SDK handle shared by the wiki tools.
type Toolset struct {
	api wikiAPI
}

// New authenticates with a pre-issued API token.
func New(baseURL, username, token string) (*Toolset, error) {
	api, err := goconfluence.NewAPI(baseURL, username, token)
	if err != nil {
		return nil, err
	}
	return &Toolset{api: api}, nil
}

// Register adds the wiki tools to the registry.
func (t *Toolset) Register(reg *tools.Registry) {
	reg.MustRegister(t.pageGetTool(), t.searchTool())
}

func (t *Toolset) pageGetTool() tools.Tool {
	return tools.Tool{
		Name:        "page_get",
		Description: "Fetch a wiki page by id, including its storage body.",
		Schema: tools.Schema{
			Required: []string{"page_id"},
			Properties: map[string]tools.Property{
				"page_id": {Type: "string", Description: "numeric page id"},
			},
		},
		Execute: func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
			content, err := t.api.GetContentByID(tools.StringArg(args, "page_id"), goconfluence.ContentQuery{
				Expand: []string{"body.storage", "version"},
			})
			if err != nil {
				return nil, err
			}
			return reshapePage(content), nil
		},
	}
}

func (t *Toolset) searchTool() tools.Tool {
	props := tools.PageSchema()
	props["cql"] = tools.Property{Type: "string", Description: "wiki query string"}
	return tools.Tool{
		Name:        "wiki_search",
		Description: "Search wiki content with a query string.",
		Schema:      tools.Schema{Required: []string{"cql"}, Properties: props},
		Execute: func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
			page := tools.IntArg(args, "page", 1)
			perPage := tools.IntArg(args, "per_page", 30)
			res, err := t.api.Search(goconfluence.SearchQuery{
				CQL:   tools.StringArg(args, "cql"),
				Start: (page - 1) * perPage,
				Limit: perPage,
			})
			if err != nil {
				return nil, err
			}
			hits := make([]SearchHit, 0, len(res.Results))
			for _, r := range res.Results {
				hits = append(hits, SearchHit{
					ID:      r.Content.ID,
					Title:   r.Title,
					Excerpt: r.Excerpt,
					Link:    r.URL,
				})
			}
			return hits, nil
		},
	}
}

func reshapePage(c *goconfluence.Content) Page {
	p := Page{
		ID:    c.ID,
		Title: c.Title,
		Body:  c.Body.Storage.Value,
	}
	if c.Version != nil {
		p.Version = c.Version.Number
		p.UpdatedAt = c.Version.When
		if c.Version.By != nil {
			p.UpdatedBy = c.Version.By.DisplayName
		}
	}
	if c.Links != nil {
		p.Link = c.Links.Base + c.Links.TinyUI
	}
	return p
}
