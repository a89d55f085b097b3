// Package github exposes a subset of the GitHub REST API as agent functions.
package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/janhq/jan-agent-gateway/internal/infrastructure/functions"
)

// ServiceName is the name agents list in allowedTools to get every GitHub function.
const ServiceName = "github"

const (
	defaultPerPage = 30
	maxFileBytes   = 64 * 1024
)

// New builds the GitHub executor against baseURL (https://api.github.com or an
// Enterprise /api/v3 root).
func New(baseURL string, timeout time.Duration) (*functions.Executor, error) {
	client := functions.NewHTTPClient(baseURL, timeout).
		SetHeader("Accept", "application/vnd.github+json").
		SetHeader("X-GitHub-Api-Version", "2022-11-28")

	return functions.NewExecutor(ServiceName, client, functions.BearerAuth,
		functions.Define("list_repos", "List repositories of a user or organization. Without owner lists repositories of the authenticated user.", listRepos),
		functions.Define("get_repo", "Get details of a single repository.", getRepo),
		functions.Define("list_issues", "List issues of a repository. Pull requests are excluded.", listIssues),
		functions.Define("get_issue", "Get a single issue with its body.", getIssue),
		functions.Define("create_issue", "Open a new issue in a repository.", createIssue),
		functions.Define("comment_on_issue", "Add a comment to an issue or pull request.", commentOnIssue),
		functions.Define("list_pull_requests", "List pull requests of a repository.", listPullRequests),
		functions.Define("get_pull_request", "Get a single pull request including merge status.", getPullRequest),
		functions.Define("list_commits", "List recent commits of a repository.", listCommits),
		functions.Define("list_branches", "List branches of a repository.", listBranches),
		functions.Define("get_file_contents", "Read a file or list a directory in a repository.", getFileContents),
		functions.Define("search_code", "Search code across GitHub using GitHub code search syntax.", searchCode),
	)
}

// Pagination holds the shared pagination arguments.
type Pagination struct {
	PerPage int `json:"per_page,omitempty" validate:"omitempty,min=1,max=100" jsonschema:"minimum=1,maximum=100" jsonschema_description:"Results per page (default 30)"`
	Page    int `json:"page,omitempty" validate:"omitempty,min=1" jsonschema:"minimum=1" jsonschema_description:"Page number starting at 1"`
}

func (p Pagination) apply(req *resty.Request) *resty.Request {
	perPage := p.PerPage
	if perPage == 0 {
		perPage = defaultPerPage
	}
	req.SetQueryParam("per_page", strconv.Itoa(perPage))
	if p.Page > 0 {
		req.SetQueryParam("page", strconv.Itoa(p.Page))
	}
	return req
}

// RepoRef identifies a repository.
type RepoRef struct {
	Owner string `json:"owner" validate:"required" jsonschema_description:"Repository owner (user or organization)"`
	Repo  string `json:"repo" validate:"required" jsonschema_description:"Repository name"`
}

func (r RepoRef) params() map[string]string {
	return map[string]string{"owner": r.Owner, "repo": r.Repo}
}

type ListReposArgs struct {
	Owner string `json:"owner,omitempty" jsonschema_description:"User or organization login. Omit for the authenticated user"`
	Sort  string `json:"sort,omitempty" validate:"omitempty,oneof=created updated pushed full_name" jsonschema:"enum=created,enum=updated,enum=pushed,enum=full_name"`
	Pagination
}

type IssueArgs struct {
	RepoRef
	Number int `json:"number" validate:"required,min=1" jsonschema_description:"Issue number"`
}

type PullRequestArgs struct {
	RepoRef
	Number int `json:"number" validate:"required,min=1" jsonschema_description:"Pull request number"`
}

type ListIssuesArgs struct {
	RepoRef
	State    string `json:"state,omitempty" validate:"omitempty,oneof=open closed all" jsonschema:"enum=open,enum=closed,enum=all"`
	Labels   string `json:"labels,omitempty" jsonschema_description:"Comma separated label names"`
	Assignee string `json:"assignee,omitempty" jsonschema_description:"Login of the assignee"`
	Pagination
}

type CreateIssueArgs struct {
	RepoRef
	Title     string   `json:"title" validate:"required"`
	Body      string   `json:"body,omitempty"`
	Labels    []string `json:"labels,omitempty"`
	Assignees []string `json:"assignees,omitempty"`
}

type CommentArgs struct {
	RepoRef
	Number int    `json:"number" validate:"required,min=1" jsonschema_description:"Issue or pull request number"`
	Body   string `json:"body" validate:"required" jsonschema_description:"Comment text in markdown"`
}

type ListPullRequestsArgs struct {
	RepoRef
	State string `json:"state,omitempty" validate:"omitempty,oneof=open closed all" jsonschema:"enum=open,enum=closed,enum=all"`
	Pagination
}

type ListCommitsArgs struct {
	RepoRef
	SHA    string `json:"sha,omitempty" jsonschema_description:"Branch name or commit SHA to start from"`
	Path   string `json:"path,omitempty" jsonschema_description:"Only commits touching this path"`
	Author string `json:"author,omitempty" jsonschema_description:"GitHub login or email of the author"`
	Pagination
}

type ListBranchesArgs struct {
	RepoRef
	Pagination
}

type FileContentsArgs struct {
	RepoRef
	Path string `json:"path,omitempty" jsonschema_description:"Path inside the repository. Empty for the root directory"`
	Ref  string `json:"ref,omitempty" jsonschema_description:"Branch, tag or commit. Defaults to the default branch"`
}

type SearchCodeArgs struct {
	Query string `json:"query" validate:"required" jsonschema_description:"Search query, e.g. 'addClass repo:jquery/jquery'"`
	Pagination
}

type user struct {
	Login string `json:"login"`
}

type Repository struct {
	FullName        string    `json:"full_name"`
	Description     string    `json:"description"`
	Private         bool      `json:"private"`
	HTMLURL         string    `json:"html_url"`
	DefaultBranch   string    `json:"default_branch"`
	Language        string    `json:"language"`
	StargazersCount int       `json:"stargazers_count"`
	ForksCount      int       `json:"forks_count"`
	OpenIssuesCount int       `json:"open_issues_count"`
	Archived        bool      `json:"archived"`
	PushedAt        time.Time `json:"pushed_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type Issue struct {
	Number      int       `json:"number"`
	Title       string    `json:"title"`
	State       string    `json:"state"`
	HTMLURL     string    `json:"html_url"`
	Body        string    `json:"body,omitempty"`
	User        user      `json:"user"`
	Assignees   []user    `json:"assignees,omitempty"`
	Labels      []label   `json:"labels,omitempty"`
	Comments    int       `json:"comments"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	PullRequest *struct{} `json:"pull_request,omitempty"`
}

type label struct {
	Name string `json:"name"`
}

type Comment struct {
	ID        int64     `json:"id"`
	HTMLURL   string    `json:"html_url"`
	Body      string    `json:"body"`
	User      user      `json:"user"`
	CreatedAt time.Time `json:"created_at"`
}

type ref struct {
	Ref string `json:"ref"`
	SHA string `json:"sha"`
}

type PullRequest struct {
	Number       int        `json:"number"`
	Title        string     `json:"title"`
	State        string     `json:"state"`
	HTMLURL      string     `json:"html_url"`
	Body         string     `json:"body,omitempty"`
	User         user       `json:"user"`
	Draft        bool       `json:"draft"`
	Head         ref        `json:"head"`
	Base         ref        `json:"base"`
	Merged       bool       `json:"merged"`
	Mergeable    *bool      `json:"mergeable,omitempty"`
	Additions    int        `json:"additions,omitempty"`
	Deletions    int        `json:"deletions,omitempty"`
	ChangedFiles int        `json:"changed_files,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	MergedAt     *time.Time `json:"merged_at,omitempty"`
}

type Commit struct {
	SHA     string `json:"sha"`
	HTMLURL string `json:"html_url"`
	Commit  struct {
		Message string `json:"message"`
		Author  struct {
			Name  string    `json:"name"`
			Email string    `json:"email"`
			Date  time.Time `json:"date"`
		} `json:"author"`
	} `json:"commit"`
}

type Branch struct {
	Name      string `json:"name"`
	Protected bool   `json:"protected"`
	Commit    struct {
		SHA string `json:"sha"`
	} `json:"commit"`
}

type contentEntry struct {
	Type     string `json:"type"`
	Name     string `json:"name"`
	Path     string `json:"path"`
	Size     int    `json:"size"`
	SHA      string `json:"sha"`
	HTMLURL  string `json:"html_url"`
	Encoding string `json:"encoding,omitempty"`
	Content  string `json:"content,omitempty"`
}

// FileContents is what get_file_contents returns for a file.
type FileContents struct {
	Path      string `json:"path"`
	Size      int    `json:"size"`
	SHA       string `json:"sha"`
	HTMLURL   string `json:"html_url"`
	Content   string `json:"content"`
	Truncated bool   `json:"truncated,omitempty"`
}

// DirectoryListing is what get_file_contents returns for a directory.
type DirectoryListing struct {
	Path    string           `json:"path"`
	Entries []DirectoryEntry `json:"entries"`
}

type DirectoryEntry struct {
	Type string `json:"type"`
	Name string `json:"name"`
	Path string `json:"path"`
	Size int    `json:"size"`
}

type codeSearchResult struct {
	TotalCount        int  `json:"total_count"`
	IncompleteResults bool `json:"incomplete_results"`
	Items             []struct {
		Name       string `json:"name"`
		Path       string `json:"path"`
		HTMLURL    string `json:"html_url"`
		Repository struct {
			FullName string `json:"full_name"`
		} `json:"repository"`
	} `json:"items"`
}

// CodeMatch is a single search_code hit.
type CodeMatch struct {
	Repository string `json:"repository"`
	Path       string `json:"path"`
	HTMLURL    string `json:"html_url"`
}

func listRepos(ctx context.Context, s *functions.Session, args ListReposArgs) (any, error) {
	req := args.Pagination.apply(s.R(ctx))
	if args.Sort != "" {
		req.SetQueryParam("sort", args.Sort)
	}

	path := "/user/repos"
	if args.Owner != "" {
		path = "/users/{owner}/repos"
		req.SetPathParam("owner", args.Owner)
	}

	var repos []Repository
	resp, err := req.SetResult(&repos).Get(path)
	if err := functions.Check(ServiceName, resp, err); err != nil {
		return nil, err
	}
	return map[string]any{"repositories": repos, "count": len(repos)}, nil
}

func getRepo(ctx context.Context, s *functions.Session, args RepoRef) (any, error) {
	var repo Repository
	resp, err := s.R(ctx).
		SetPathParams(args.params()).
		SetResult(&repo).
		Get("/repos/{owner}/{repo}")
	if err := functions.Check(ServiceName, resp, err); err != nil {
		return nil, err
	}
	return repo, nil
}

func listIssues(ctx context.Context, s *functions.Session, args ListIssuesArgs) (any, error) {
	req := args.Pagination.apply(s.R(ctx)).SetPathParams(args.params())
	if args.State != "" {
		req.SetQueryParam("state", args.State)
	}
	if args.Labels != "" {
		req.SetQueryParam("labels", args.Labels)
	}
	if args.Assignee != "" {
		req.SetQueryParam("assignee", args.Assignee)
	}

	var raw []Issue
	resp, err := req.SetResult(&raw).Get("/repos/{owner}/{repo}/issues")
	if err := functions.Check(ServiceName, resp, err); err != nil {
		return nil, err
	}

	issues := make([]Issue, 0, len(raw))
	for _, issue := range raw {
		if issue.PullRequest != nil {
			continue
		}
		issue.Body = ""
		issues = append(issues, issue)
	}
	return map[string]any{"issues": issues, "count": len(issues)}, nil
}

func getIssue(ctx context.Context, s *functions.Session, args IssueArgs) (any, error) {
	var issue Issue
	resp, err := s.R(ctx).
		SetPathParams(args.params()).
		SetPathParam("number", strconv.Itoa(args.Number)).
		SetResult(&issue).
		Get("/repos/{owner}/{repo}/issues/{number}")
	if err := functions.Check(ServiceName, resp, err); err != nil {
		return nil, err
	}
	return issue, nil
}

func createIssue(ctx context.Context, s *functions.Session, args CreateIssueArgs) (any, error) {
	body := map[string]any{"title": args.Title}
	if args.Body != "" {
		body["body"] = args.Body
	}
	if len(args.Labels) > 0 {
		body["labels"] = args.Labels
	}
	if len(args.Assignees) > 0 {
		body["assignees"] = args.Assignees
	}

	var issue Issue
	resp, err := s.R(ctx).
		SetPathParams(args.params()).
		SetBody(body).
		SetResult(&issue).
		Post("/repos/{owner}/{repo}/issues")
	if err := functions.Check(ServiceName, resp, err); err != nil {
		return nil, err
	}
	return issue, nil
}

func commentOnIssue(ctx context.Context, s *functions.Session, args CommentArgs) (any, error) {
	var comment Comment
	resp, err := s.R(ctx).
		SetPathParams(args.params()).
		SetPathParam("number", strconv.Itoa(args.Number)).
		SetBody(map[string]string{"body": args.Body}).
		SetResult(&comment).
		Post("/repos/{owner}/{repo}/issues/{number}/comments")
	if err := functions.Check(ServiceName, resp, err); err != nil {
		return nil, err
	}
	return comment, nil
}

func listPullRequests(ctx context.Context, s *functions.Session, args ListPullRequestsArgs) (any, error) {
	req := args.Pagination.apply(s.R(ctx)).SetPathParams(args.params())
	if args.State != "" {
		req.SetQueryParam("state", args.State)
	}

	var pulls []PullRequest
	resp, err := req.SetResult(&pulls).Get("/repos/{owner}/{repo}/pulls")
	if err := functions.Check(ServiceName, resp, err); err != nil {
		return nil, err
	}
	for i := range pulls {
		pulls[i].Body = ""
	}
	return map[string]any{"pull_requests": pulls, "count": len(pulls)}, nil
}

func getPullRequest(ctx context.Context, s *functions.Session, args PullRequestArgs) (any, error) {
	var pull PullRequest
	resp, err := s.R(ctx).
		SetPathParams(args.params()).
		SetPathParam("number", strconv.Itoa(args.Number)).
		SetResult(&pull).
		Get("/repos/{owner}/{repo}/pulls/{number}")
	if err := functions.Check(ServiceName, resp, err); err != nil {
		return nil, err
	}
	return pull, nil
}

func listCommits(ctx context.Context, s *functions.Session, args ListCommitsArgs) (any, error) {
	req := args.Pagination.apply(s.R(ctx)).SetPathParams(args.params())
	for key, value := range map[string]string{"sha": args.SHA, "path": args.Path, "author": args.Author} {
		if value != "" {
			req.SetQueryParam(key, value)
		}
	}

	var commits []Commit
	resp, err := req.SetResult(&commits).Get("/repos/{owner}/{repo}/commits")
	if err := functions.Check(ServiceName, resp, err); err != nil {
		return nil, err
	}
	return map[string]any{"commits": commits, "count": len(commits)}, nil
}

func listBranches(ctx context.Context, s *functions.Session, args ListBranchesArgs) (any, error) {
	var branches []Branch
	resp, err := args.Pagination.apply(s.R(ctx)).
		SetPathParams(args.params()).
		SetResult(&branches).
		Get("/repos/{owner}/{repo}/branches")
	if err := functions.Check(ServiceName, resp, err); err != nil {
		return nil, err
	}
	return map[string]any{"branches": branches, "count": len(branches)}, nil
}

func getFileContents(ctx context.Context, s *functions.Session, args FileContentsArgs) (any, error) {
	req := s.R(ctx).
		SetPathParams(args.params()).
		SetRawPathParam("path", strings.Trim(args.Path, "/"))
	if args.Ref != "" {
		req.SetQueryParam("ref", args.Ref)
	}

	resp, err := req.Get("/repos/{owner}/{repo}/contents/{path}")
	if err := functions.Check(ServiceName, resp, err); err != nil {
		return nil, err
	}

	body := resp.Body()
	if trimmed := strings.TrimSpace(string(body)); strings.HasPrefix(trimmed, "[") {
		var entries []contentEntry
		if err := json.Unmarshal(body, &entries); err != nil {
			return nil, fmt.Errorf("decode directory listing: %w", err)
		}
		listing := DirectoryListing{Path: args.Path, Entries: make([]DirectoryEntry, len(entries))}
		for i, e := range entries {
			listing.Entries[i] = DirectoryEntry{Type: e.Type, Name: e.Name, Path: e.Path, Size: e.Size}
		}
		return listing, nil
	}

	var entry contentEntry
	if err := json.Unmarshal(body, &entry); err != nil {
		return nil, fmt.Errorf("decode file contents: %w", err)
	}
	if entry.Type != "file" {
		return nil, fmt.Errorf("%s is a %s, not a file", entry.Path, entry.Type)
	}

	file := FileContents{Path: entry.Path, Size: entry.Size, SHA: entry.SHA, HTMLURL: entry.HTMLURL}
	if entry.Encoding == "base64" {
		decoded, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(entry.Content, "\n", ""))
		if err != nil {
			return nil, fmt.Errorf("decode file contents: %w", err)
		}
		if len(decoded) > maxFileBytes {
			decoded = decoded[:maxFileBytes]
			file.Truncated = true
		}
		file.Content = string(decoded)
	} else {
		file.Content = entry.Content
	}
	return file, nil
}

func searchCode(ctx context.Context, s *functions.Session, args SearchCodeArgs) (any, error) {
	var result codeSearchResult
	resp, err := args.Pagination.apply(s.R(ctx)).
		SetQueryParam("q", args.Query).
		SetResult(&result).
		Get("/search/code")
	if err := functions.Check(ServiceName, resp, err); err != nil {
		return nil, err
	}

	matches := make([]CodeMatch, len(result.Items))
	for i, item := range result.Items {
		matches[i] = CodeMatch{Repository: item.Repository.FullName, Path: item.Path, HTMLURL: item.HTMLURL}
	}
	return map[string]any{
		"total_count":        result.TotalCount,
		"incomplete_results": result.IncompleteResults,
		"matches":            matches,
	}, nil
}
