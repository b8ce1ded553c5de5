package issues

import (
	"context"
	"errors"
	"testing"

	jira "github.com/andygrunwald/go-jira"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nimbleshop/nimbleshop/internal/tools"
)

type fakeIssueAPI struct {
	getCalls    int
	searchCalls int
	addCalls    int

	issue   *jira.Issue
	results []jira.Issue
	err     error

	lastJQL  string
	lastOpts *jira.SearchOptions
	lastBody string
}

func (f *fakeIssueAPI) GetWithContext(ctx context.Context, id string, opts *jira.GetQueryOptions) (*jira.Issue, *jira.Response, error) {
	f.getCalls++
	return f.issue, nil, f.err
}

func (f *fakeIssueAPI) SearchWithContext(ctx context.Context, jql string, opts *jira.SearchOptions) ([]jira.Issue, *jira.Response, error) {
	f.searchCalls++
	f.lastJQL = jql
	f.lastOpts = opts
	return f.results, nil, f.err
}

func (f *fakeIssueAPI) AddCommentWithContext(ctx context.Context, id string, c *jira.Comment) (*jira.Comment, *jira.Response, error) {
	f.addCalls++
	f.lastBody = c.Body
	return &jira.Comment{ID: "10001", Body: c.Body}, nil, f.err
}

func registryWith(fake *fakeIssueAPI) *tools.Registry {
	reg := tools.NewRegistry()
	(&Toolset{issues: fake}).Register(reg)
	return reg
}

func TestIssueGetReshapes(t *testing.T) {
	fake := &fakeIssueAPI{issue: &jira.Issue{
		Key:  "SHOP-42",
		Self: "https://tracker.example.com/rest/api/2/issue/10042",
		Fields: &jira.IssueFields{
			Summary:     "Checkout button unresponsive",
			Description: "Steps to reproduce...",
			Status:      &jira.Status{Name: "In Progress"},
			Reporter:    &jira.User{DisplayName: "Dana Ops"},
		},
	}}
	reg := registryWith(fake)

	out, err := reg.Execute(context.Background(), "issue_get", map[string]interface{}{"issue_key": "SHOP-42"})
	require.NoError(t, err)

	issue := out.(Issue)
	assert.Equal(t, "SHOP-42", issue.Key)
	assert.Equal(t, "Checkout button unresponsive", issue.Summary)
	assert.Equal(t, "In Progress", issue.Status)
	assert.Equal(t, "Dana Ops", issue.Author)
}

func TestIssueSearchPassesPagination(t *testing.T) {
	fake := &fakeIssueAPI{results: []jira.Issue{{Key: "SHOP-1"}, {Key: "SHOP-2"}}}
	reg := registryWith(fake)

	out, err := reg.Execute(context.Background(), "issue_search", map[string]interface{}{
		"jql":      "project = SHOP",
		"page":     2,
		"per_page": 10,
	})
	require.NoError(t, err)
	assert.Len(t, out.([]Issue), 2)
	assert.Equal(t, "project = SHOP", fake.lastJQL)
	assert.Equal(t, 10, fake.lastOpts.StartAt)
	assert.Equal(t, 10, fake.lastOpts.MaxResults)
}

func TestCommentListBoundsCheckedBeforeCall(t *testing.T) {
	fake := &fakeIssueAPI{}
	reg := registryWith(fake)

	_, err := reg.Execute(context.Background(), "comment_list", map[string]interface{}{
		"issue_key": "SHOP-1",
		"per_page":  101,
	})
	require.Error(t, err)
	var ae *tools.ArgError
	require.True(t, errors.As(err, &ae))
	assert.Zero(t, fake.getCalls, "SDK must not be called on invalid args")
}

func TestCommentListPagesLocally(t *testing.T) {
	comments := make([]*jira.Comment, 5)
	for i := range comments {
		comments[i] = &jira.Comment{ID: string(rune('a' + i)), Body: "c"}
	}
	fake := &fakeIssueAPI{issue: &jira.Issue{
		Key:    "SHOP-1",
		Fields: &jira.IssueFields{Comments: &jira.Comments{Comments: comments}},
	}}
	reg := registryWith(fake)

	out, err := reg.Execute(context.Background(), "comment_list", map[string]interface{}{
		"issue_key": "SHOP-1",
		"page":      2,
		"per_page":  2,
	})
	require.NoError(t, err)
	assert.Len(t, out.([]Comment), 2)
}

func TestCommentAdd(t *testing.T) {
	fake := &fakeIssueAPI{}
	reg := registryWith(fake)

	out, err := reg.Execute(context.Background(), "comment_add", map[string]interface{}{
		"issue_key": "SHOP-1",
		"body":      "shipping fixed in build 124",
	})
	require.NoError(t, err)
	assert.Equal(t, "shipping fixed in build 124", fake.lastBody)
	assert.Equal(t, "10001", out.(Comment).ID)
}

func TestSDKErrorPropagatesRaw(t *testing.T) {
	boom := errors.New("tracker: 502 bad gateway")
	fake := &fakeIssueAPI{err: boom}
	reg := registryWith(fake)

	_, err := reg.Execute(context.Background(), "issue_get", map[string]interface{}{"issue_key": "SHOP-1"})
	assert.ErrorIs(t, err, boom)
}
