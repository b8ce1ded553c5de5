// Package issues wraps the issue-tracker SDK behind the tool-calling
// surface. Each tool is one SDK call; tracker failures propagate raw.
package issues

import (
	"context"
	"time"

	jira "github.com/andygrunwald/go-jira"

	"github.com/nimbleshop/nimbleshop/internal/tools"
)

// issueAPI is the slice of the SDK's issue service the tools use.
type issueAPI interface {
	GetWithContext(ctx context.Context, issueID string, options *jira.GetQueryOptions) (*jira.Issue, *jira.Response, error)
	SearchWithContext(ctx context.Context, jql string, options *jira.SearchOptions) ([]jira.Issue, *jira.Response, error)
	AddCommentWithContext(ctx context.Context, issueID string, comment *jira.Comment) (*jira.Comment, *jira.Response, error)
}

// Issue is the reshaped tracker issue record.
type Issue struct {
	Key       string    `json:"key"`
	Summary   string    `json:"summary"`
	Body      string    `json:"body,omitempty"`
	Status    string    `json:"status,omitempty"`
	Author    string    `json:"author,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Link      string    `json:"link,omitempty"`
}

// Comment is the reshaped issue comment record.
type Comment struct {
	ID        string `json:"id"`
	Body      string `json:"body"`
	Author    string `json:"author,omitempty"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
	Link      string `json:"link,omitempty"`
}

// Toolset holds the SDK handle shared by all issue tools.
type Toolset struct {
	issues issueAPI
}

// New builds a toolset over an authenticated client. Authentication uses a
// pre-issued API token via basic auth.
func New(baseURL, email, apiToken string) (*Toolset, error) {
	tp := jira.BasicAuthTransport{Username: email, Password: apiToken}
	client, err := jira.NewClient(tp.Client(), baseURL)
	if err != nil {
		return nil, err
	}
	return &Toolset{issues: client.Issue}, nil
}

// Register adds every issue tool to the registry.
func (t *Toolset) Register(reg *tools.Registry) {
	reg.MustRegister(
		t.issueGetTool(),
		t.issueSearchTool(),
		t.commentListTool(),
		t.commentAddTool(),
	)
}

func (t *Toolset) issueGetTool() tools.Tool {
	return tools.Tool{
		Name:        "issue_get",
		Description: "Fetch a single issue by its key.",
		Schema: tools.Schema{
			Required: []string{"issue_key"},
			Properties: map[string]tools.Property{
				"issue_key": {Type: "string", Description: "issue key, e.g. SHOP-42"},
			},
		},
		Execute: func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
			issue, _, err := t.issues.GetWithContext(ctx, tools.StringArg(args, "issue_key"), nil)
			if err != nil {
				return nil, err
			}
			return reshapeIssue(issue), nil
		},
	}
}

func (t *Toolset) issueSearchTool() tools.Tool {
	props := tools.PageSchema()
	props["jql"] = tools.Property{Type: "string", Description: "tracker query string"}
	return tools.Tool{
		Name:        "issue_search",
		Description: "Search issues with a tracker query.",
		Schema:      tools.Schema{Required: []string{"jql"}, Properties: props},
		Execute: func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
			page := tools.IntArg(args, "page", 1)
			perPage := tools.IntArg(args, "per_page", 30)
			found, _, err := t.issues.SearchWithContext(ctx, tools.StringArg(args, "jql"), &jira.SearchOptions{
				StartAt:    (page - 1) * perPage,
				MaxResults: perPage,
			})
			if err != nil {
				return nil, err
			}
			out := make([]Issue, 0, len(found))
			for i := range found {
				out = append(out, reshapeIssue(&found[i]))
			}
			return out, nil
		},
	}
}

func (t *Toolset) commentListTool() tools.Tool {
	props := tools.PageSchema()
	props["issue_key"] = tools.Property{Type: "string", Description: "issue key"}
	return tools.Tool{
		Name:        "comment_list",
		Description: "List comments on an issue.",
		Schema:      tools.Schema{Required: []string{"issue_key"}, Properties: props},
		Execute: func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
			issue, _, err := t.issues.GetWithContext(ctx, tools.StringArg(args, "issue_key"), &jira.GetQueryOptions{Fields: "comment"})
			if err != nil {
				return nil, err
			}
			var comments []*jira.Comment
			if issue.Fields != nil && issue.Fields.Comments != nil {
				comments = issue.Fields.Comments.Comments
			}
			page := tools.IntArg(args, "page", 1)
			perPage := tools.IntArg(args, "per_page", 30)
			lo := (page - 1) * perPage
			if lo > len(comments) {
				lo = len(comments)
			}
			hi := lo + perPage
			if hi > len(comments) {
				hi = len(comments)
			}
			out := make([]Comment, 0, hi-lo)
			for _, c := range comments[lo:hi] {
				out = append(out, reshapeComment(c))
			}
			return out, nil
		},
	}
}

func (t *Toolset) commentAddTool() tools.Tool {
	return tools.Tool{
		Name:        "comment_add",
		Description: "Add a comment to an issue.",
		Schema: tools.Schema{
			Required: []string{"issue_key", "body"},
			Properties: map[string]tools.Property{
				"issue_key": {Type: "string", Description: "issue key"},
				"body":      {Type: "string", Description: "comment text"},
			},
		},
		Execute: func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
			c, _, err := t.issues.AddCommentWithContext(ctx, tools.StringArg(args, "issue_key"), &jira.Comment{
				Body: tools.StringArg(args, "body"),
			})
			if err != nil {
				return nil, err
			}
			return reshapeComment(c), nil
		},
	}
}

func reshapeIssue(issue *jira.Issue) Issue {
	out := Issue{Key: issue.Key, Link: issue.Self}
	if issue.Fields == nil {
		return out
	}
	out.Summary = issue.Fields.Summary
	out.Body = issue.Fields.Description
	out.CreatedAt = time.Time(issue.Fields.Created)
	out.UpdatedAt = time.Time(issue.Fields.Updated)
	if issue.Fields.Status != nil {
		out.Status = issue.Fields.Status.Name
	}
	if issue.Fields.Reporter != nil {
		out.Author = issue.Fields.Reporter.DisplayName
	}
	return out
}

func reshapeComment(c *jira.Comment) Comment {
	return Comment{
		ID:        c.ID,
		Body:      c.Body,
		Author:    c.Author.DisplayName,
		CreatedAt: c.Created,
		UpdatedAt: c.Updated,
		Link:      c.Self,
	}
}
