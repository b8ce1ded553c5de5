// Package repos wraps the source-hosting SDK behind the tool-calling
// surface.
package repos

import (
	"context"
	"time"

	"github.com/google/go-github/v58/github"

	"github.com/nimbleshop/nimbleshop/internal/tools"
)

type pullsAPI interface {
	List(ctx context.Context, owner, repo string, opts *github.PullRequestListOptions) ([]*github.PullRequest, *github.Response, error)
}

type issuesAPI interface {
	ListComments(ctx context.Context, owner, repo string, number int, opts *github.IssueListCommentsOptions) ([]*github.IssueComment, *github.Response, error)
	CreateComment(ctx context.Context, owner, repo string, number int, comment *github.IssueComment) (*github.IssueComment, *github.Response, error)
}

// PullRequest is the reshaped pull request record.
type PullRequest struct {
	Number    int       `json:"number"`
	Title     string    `json:"title"`
	State     string    `json:"state"`
	Author    string    `json:"author,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Link      string    `json:"link,omitempty"`
}

// Comment is the reshaped issue comment record.
type Comment struct {
	ID        int64     `json:"id"`
	Body      string    `json:"body"`
	Author    string    `json:"author,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Link      string    `json:"link,omitempty"`
}

// Toolset holds the SDK handles shared by the repo tools.
type Toolset struct {
	pulls  pullsAPI
	issues issuesAPI
}

// New authenticates with a pre-issued personal access token.
func New(token string) *Toolset {
	client := github.NewClient(nil).WithAuthToken(token)
	return &Toolset{pulls: client.PullRequests, issues: client.Issues}
}

// Register adds the repo tools to the registry.
func (t *Toolset) Register(reg *tools.Registry) {
	reg.MustRegister(t.prListTool(), t.commentListTool(), t.commentAddTool())
}

func repoProps() map[string]tools.Property {
	return map[string]tools.Property{
		"owner": {Type: "string", Description: "repository owner"},
		"repo":  {Type: "string", Description: "repository name"},
	}
}

func (t *Toolset) prListTool() tools.Tool {
	props := repoProps()
	for k, v := range tools.PageSchema() {
		props[k] = v
	}
	props["state"] = tools.Property{
		Type:        "string",
		Description: "filter by state",
		Default:     "open",
		Enum:        []string{"open", "closed", "all"},
	}
	return tools.Tool{
		Name:        "pr_list",
		Description: "List pull requests for a repository.",
		Schema:      tools.Schema{Required: []string{"owner", "repo"}, Properties: props},
		Execute: func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
			prs, _, err := t.pulls.List(ctx, tools.StringArg(args, "owner"), tools.StringArg(args, "repo"),
				&github.PullRequestListOptions{
					State: tools.StringArg(args, "state"),
					ListOptions: github.ListOptions{
						Page:    tools.IntArg(args, "page", 1),
						PerPage: tools.IntArg(args, "per_page", 30),
					},
				})
			if err != nil {
				return nil, err
			}
			out := make([]PullRequest, 0, len(prs))
			for _, pr := range prs {
				out = append(out, PullRequest{
					Number:    pr.GetNumber(),
					Title:     pr.GetTitle(),
					State:     pr.GetState(),
					Author:    pr.GetUser().GetLogin(),
					CreatedAt: pr.GetCreatedAt().Time,
					UpdatedAt: pr.GetUpdatedAt().Time,
					Link:      pr.GetHTMLURL(),
				})
			}
			return out, nil
		},
	}
}

func (t *Toolset) commentListTool() tools.Tool {
	props := repoProps()
	for k, v := range tools.PageSchema() {
		props[k] = v
	}
	props["number"] = tools.Property{Type: "integer", Description: "issue or pull request number", Minimum: tools.Float64Ptr(1)}
	return tools.Tool{
		Name:        "issue_comment_list",
		Description: "List comments on an issue or pull request.",
		Schema:      tools.Schema{Required: []string{"owner", "repo", "number"}, Properties: props},
		Execute: func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
			comments, _, err := t.issues.ListComments(ctx, tools.StringArg(args, "owner"), tools.StringArg(args, "repo"),
				tools.IntArg(args, "number", 0),
				&github.IssueListCommentsOptions{
					ListOptions: github.ListOptions{
						Page:    tools.IntArg(args, "page", 1),
						PerPage: tools.IntArg(args, "per_page", 30),
					},
				})
			if err != nil {
				return nil, err
			}
			out := make([]Comment, 0, len(comments))
			for _, c := range comments {
				out = append(out, reshapeComment(c))
			}
			return out, nil
		},
	}
}

func (t *Toolset) commentAddTool() tools.Tool {
	props := repoProps()
	props["number"] = tools.Property{Type: "integer", Description: "issue or pull request number", Minimum: tools.Float64Ptr(1)}
	props["body"] = tools.Property{Type: "string", Description: "comment text"}
	return tools.Tool{
		Name:        "issue_comment_add",
		Description: "Add a comment to an issue or pull request.",
		Schema:      tools.Schema{Required: []string{"owner", "repo", "number", "body"}, Properties: props},
		Execute: func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
			c, _, err := t.issues.CreateComment(ctx, tools.StringArg(args, "owner"), tools.StringArg(args, "repo"),
				tools.IntArg(args, "number", 0),
				&github.IssueComment{Body: github.String(tools.StringArg(args, "body"))})
			if err != nil {
				return nil, err
			}
			return reshapeComment(c), nil
		},
	}
}

func reshapeComment(c *github.IssueComment) Comment {
	return Comment{
		ID:        c.GetID(),
		Body:      c.GetBody(),
		Author:    c.GetUser().GetLogin(),
		CreatedAt: c.GetCreatedAt().Time,
		UpdatedAt: c.GetUpdatedAt().Time,
		Link:      c.GetHTMLURL(),
	}
}
