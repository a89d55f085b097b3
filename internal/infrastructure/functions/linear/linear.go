// Package linear exposes Linear's GraphQL API as agent functions.
package linear

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/janhq/jan-agent-gateway/internal/infrastructure/functions"
)

// ServiceName is the name agents list in allowedTools to get every Linear function.
const ServiceName = "linear"

const defaultFirst = 25

// New builds the Linear executor posting to endpoint
// (https://api.linear.app/graphql).
func New(endpoint string, timeout time.Duration) (*functions.Executor, error) {
	client := functions.NewHTTPClient("", timeout).
		SetHeader("Content-Type", "application/json")

	g := &graphQL{endpoint: endpoint}
	return functions.NewExecutor(ServiceName, client, functions.RawAuth,
		functions.Define("linear_get_viewer", "Get the Linear user the API key belongs to.", g.getViewer),
		functions.Define("linear_list_teams", "List the teams of the workspace.", g.listTeams),
		functions.Define("linear_list_projects", "List projects of the workspace.", g.listProjects),
		functions.Define("linear_list_issues", "List recently updated issues, optionally filtered by team, state or assignee.", g.listIssues),
		functions.Define("linear_search_issues", "Full text search over issues.", g.searchIssues),
		functions.Define("linear_get_issue", "Get one issue with description and comments. Accepts an id or an identifier such as ENG-123.", g.getIssue),
		functions.Define("linear_create_issue", "Create an issue in a team.", g.createIssue),
		functions.Define("linear_update_issue", "Update fields of an existing issue.", g.updateIssue),
		functions.Define("linear_add_comment", "Add a markdown comment to an issue.", g.addComment),
	)
}

type graphQL struct {
	endpoint string
}

type gqlError struct {
	Message string `json:"message"`
}

type gqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []gqlError      `json:"errors"`
}

// do posts one GraphQL operation. Errors reported in a 200 body are failures too.
func (g *graphQL) do(ctx context.Context, s *functions.Session, query string, variables map[string]any, out any) error {
	var envelope gqlResponse
	resp, err := s.R(ctx).
		SetBody(map[string]any{"query": query, "variables": variables}).
		SetResult(&envelope).
		Post(g.endpoint)
	if err := functions.Check(ServiceName, resp, err); err != nil {
		return err
	}

	if len(envelope.Errors) > 0 {
		msgs := make([]string, len(envelope.Errors))
		for i, e := range envelope.Errors {
			msgs[i] = e.Message
		}
		return fmt.Errorf("%s API error: %s", ServiceName, strings.Join(msgs, "; "))
	}
	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return fmt.Errorf("%s API returned no data", ServiceName)
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("decode %s response: %w", ServiceName, err)
	}
	return nil
}

type NoArgs struct{}

type ListArgs struct {
	First int `json:"first,omitempty" validate:"omitempty,min=1,max=100" jsonschema:"minimum=1,maximum=100" jsonschema_description:"Maximum number of results (default 25)"`
}

func (a ListArgs) first() int {
	if a.First == 0 {
		return defaultFirst
	}
	return a.First
}

type ListIssuesArgs struct {
	ListArgs
	TeamID     string `json:"team_id,omitempty" jsonschema_description:"Only issues of this team id"`
	State      string `json:"state,omitempty" jsonschema_description:"Workflow state name, e.g. In Progress"`
	AssigneeID string `json:"assignee_id,omitempty" jsonschema_description:"Only issues assigned to this user id"`
}

type SearchIssuesArgs struct {
	ListArgs
	Query string `json:"query" validate:"required" jsonschema_description:"Search text"`
}

type IssueRef struct {
	ID string `json:"id" validate:"required" jsonschema_description:"Issue id or identifier such as ENG-123"`
}

type CreateIssueArgs struct {
	TeamID      string `json:"team_id" validate:"required"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description,omitempty" jsonschema_description:"Markdown description"`
	Priority    *int   `json:"priority,omitempty" validate:"omitempty,min=0,max=4" jsonschema:"minimum=0,maximum=4" jsonschema_description:"0 none, 1 urgent, 2 high, 3 medium, 4 low"`
	AssigneeID  string `json:"assignee_id,omitempty"`
	ProjectID   string `json:"project_id,omitempty"`
}

type UpdateIssueArgs struct {
	IssueRef
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	StateID     string `json:"state_id,omitempty" jsonschema_description:"Target workflow state id"`
	Priority    *int   `json:"priority,omitempty" validate:"omitempty,min=0,max=4" jsonschema:"minimum=0,maximum=4"`
	AssigneeID  string `json:"assignee_id,omitempty"`
}

type AddCommentArgs struct {
	IssueID string `json:"issue_id" validate:"required" jsonschema_description:"Issue id or identifier"`
	Body    string `json:"body" validate:"required" jsonschema_description:"Comment text in markdown"`
}

type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

type Team struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Name string `json:"name"`
}

type Project struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	State      string     `json:"state"`
	URL        string     `json:"url"`
	Progress   float64    `json:"progress"`
	TargetDate *string    `json:"targetDate"`
	UpdatedAt  *time.Time `json:"updatedAt,omitempty"`
}

type named struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

type Issue struct {
	ID          string     `json:"id"`
	Identifier  string     `json:"identifier"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	URL         string     `json:"url"`
	Priority    float64    `json:"priority"`
	State       *named     `json:"state,omitempty"`
	Assignee    *named     `json:"assignee,omitempty"`
	Team        *Team      `json:"team,omitempty"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
	Labels      *struct {
		Nodes []named `json:"nodes"`
	} `json:"labels,omitempty"`
	Comments *struct {
		Nodes []Comment `json:"nodes"`
	} `json:"comments,omitempty"`
}

type Comment struct {
	ID        string     `json:"id"`
	Body      string     `json:"body"`
	URL       string     `json:"url,omitempty"`
	User      *named     `json:"user,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

const issueSummaryFields = `id identifier title url priority updatedAt state { name } assignee { name } team { id key name }`

func (g *graphQL) getViewer(ctx context.Context, s *functions.Session, _ NoArgs) (any, error) {
	var data struct {
		Viewer User `json:"viewer"`
	}
	if err := g.do(ctx, s, `query Viewer { viewer { id name email } }`, nil, &data); err != nil {
		return nil, err
	}
	return data.Viewer, nil
}

func (g *graphQL) listTeams(ctx context.Context, s *functions.Session, _ NoArgs) (any, error) {
	var data struct {
		Teams struct {
			Nodes []Team `json:"nodes"`
		} `json:"teams"`
	}
	if err := g.do(ctx, s, `query Teams { teams { nodes { id key name } } }`, nil, &data); err != nil {
		return nil, err
	}
	return map[string]any{"teams": data.Teams.Nodes, "count": len(data.Teams.Nodes)}, nil
}

func (g *graphQL) listProjects(ctx context.Context, s *functions.Session, args ListArgs) (any, error) {
	var data struct {
		Projects struct {
			Nodes []Project `json:"nodes"`
		} `json:"projects"`
	}
	query := `query Projects($first: Int) { projects(first: $first) { nodes { id name state url progress targetDate updatedAt } } }`
	if err := g.do(ctx, s, query, map[string]any{"first": args.first()}, &data); err != nil {
		return nil, err
	}
	return map[string]any{"projects": data.Projects.Nodes, "count": len(data.Projects.Nodes)}, nil
}

func (g *graphQL) listIssues(ctx context.Context, s *functions.Session, args ListIssuesArgs) (any, error) {
	filter := map[string]any{}
	if args.TeamID != "" {
		filter["team"] = map[string]any{"id": map[string]any{"eq": args.TeamID}}
	}
	if args.State != "" {
		filter["state"] = map[string]any{"name": map[string]any{"eqIgnoreCase": args.State}}
	}
	if args.AssigneeID != "" {
		filter["assignee"] = map[string]any{"id": map[string]any{"eq": args.AssigneeID}}
	}

	var data struct {
		Issues struct {
			Nodes []Issue `json:"nodes"`
		} `json:"issues"`
	}
	query := `query Issues($first: Int, $filter: IssueFilter) { issues(first: $first, filter: $filter, orderBy: updatedAt) { nodes { ` + issueSummaryFields + ` } } }`
	if err := g.do(ctx, s, query, map[string]any{"first": args.first(), "filter": filter}, &data); err != nil {
		return nil, err
	}
	return map[string]any{"issues": data.Issues.Nodes, "count": len(data.Issues.Nodes)}, nil
}

func (g *graphQL) searchIssues(ctx context.Context, s *functions.Session, args SearchIssuesArgs) (any, error) {
	var data struct {
		SearchIssues struct {
			Nodes []Issue `json:"nodes"`
		} `json:"searchIssues"`
	}
	query := `query SearchIssues($term: String!, $first: Int) { searchIssues(term: $term, first: $first) { nodes { ` + issueSummaryFields + ` } } }`
	if err := g.do(ctx, s, query, map[string]any{"term": args.Query, "first": args.first()}, &data); err != nil {
		return nil, err
	}
	return map[string]any{"issues": data.SearchIssues.Nodes, "count": len(data.SearchIssues.Nodes)}, nil
}

func (g *graphQL) getIssue(ctx context.Context, s *functions.Session, args IssueRef) (any, error) {
	var data struct {
		Issue *Issue `json:"issue"`
	}
	query := `query Issue($id: String!) { issue(id: $id) { ` + issueSummaryFields + ` description labels { nodes { id name } } comments(first: 20) { nodes { id body createdAt user { name } } } } }`
	if err := g.do(ctx, s, query, map[string]any{"id": args.ID}, &data); err != nil {
		return nil, err
	}
	if data.Issue == nil {
		return nil, fmt.Errorf("issue %s not found", args.ID)
	}
	return data.Issue, nil
}

type issuePayload struct {
	Success bool   `json:"success"`
	Issue   *Issue `json:"issue"`
}

func (g *graphQL) createIssue(ctx context.Context, s *functions.Session, args CreateIssueArgs) (any, error) {
	input := map[string]any{"teamId": args.TeamID, "title": args.Title}
	setIfPresent(input, "description", args.Description)
	setIfPresent(input, "assigneeId", args.AssigneeID)
	setIfPresent(input, "projectId", args.ProjectID)
	if args.Priority != nil {
		input["priority"] = *args.Priority
	}

	var data struct {
		IssueCreate issuePayload `json:"issueCreate"`
	}
	query := `mutation IssueCreate($input: IssueCreateInput!) { issueCreate(input: $input) { success issue { ` + issueSummaryFields + ` } } }`
	if err := g.do(ctx, s, query, map[string]any{"input": input}, &data); err != nil {
		return nil, err
	}
	if !data.IssueCreate.Success || data.IssueCreate.Issue == nil {
		return nil, fmt.Errorf("%s did not create the issue", ServiceName)
	}
	return data.IssueCreate.Issue, nil
}

func (g *graphQL) updateIssue(ctx context.Context, s *functions.Session, args UpdateIssueArgs) (any, error) {
	input := map[string]any{}
	setIfPresent(input, "title", args.Title)
	setIfPresent(input, "description", args.Description)
	setIfPresent(input, "stateId", args.StateID)
	setIfPresent(input, "assigneeId", args.AssigneeID)
	if args.Priority != nil {
		input["priority"] = *args.Priority
	}
	if len(input) == 0 {
		return nil, fmt.Errorf("update_issue needs at least one field to change")
	}

	var data struct {
		IssueUpdate issuePayload `json:"issueUpdate"`
	}
	query := `mutation IssueUpdate($id: String!, $input: IssueUpdateInput!) { issueUpdate(id: $id, input: $input) { success issue { ` + issueSummaryFields + ` } } }`
	if err := g.do(ctx, s, query, map[string]any{"id": args.ID, "input": input}, &data); err != nil {
		return nil, err
	}
	if !data.IssueUpdate.Success || data.IssueUpdate.Issue == nil {
		return nil, fmt.Errorf("%s did not update issue %s", ServiceName, args.ID)
	}
	return data.IssueUpdate.Issue, nil
}

func (g *graphQL) addComment(ctx context.Context, s *functions.Session, args AddCommentArgs) (any, error) {
	var data struct {
		CommentCreate struct {
			Success bool     `json:"success"`
			Comment *Comment `json:"comment"`
		} `json:"commentCreate"`
	}
	query := `mutation CommentCreate($input: CommentCreateInput!) { commentCreate(input: $input) { success comment { id body url createdAt } } }`
	variables := map[string]any{"input": map[string]any{"issueId": args.IssueID, "body": args.Body}}
	if err := g.do(ctx, s, query, variables, &data); err != nil {
		return nil, err
	}
	if !data.CommentCreate.Success || data.CommentCreate.Comment == nil {
		return nil, fmt.Errorf("%s did not create the comment", ServiceName)
	}
	return data.CommentCreate.Comment, nil
}

func setIfPresent(input map[string]any, key, value string) {
	if value != "" {
		input[key] = value
	}
}
