package server

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hy4ri/taskboard/internal/api"
	"github.com/hy4ri/taskboard/internal/projection"
	"github.com/hy4ri/taskboard/internal/source"
)

const (
	// SnapshotStaleHeader is "true" when a reply was built from a stored snapshot.
	SnapshotStaleHeader = "X-Snapshot-Stale"

	// SnapshotFetchedHeader is the RFC 3339 time the underlying tasks were fetched.
	SnapshotFetchedHeader = "X-Snapshot-Fetched-At"

	monthLayout = "2006-01"
)

// workspaceScope returns the request's workspace filter, "" meaning every
// workspace. The list filter's "all" sentinel means the same here.
func workspaceScope(c *gin.Context) string {
	ws := c.Query("workspace")
	if ws == projection.FilterAll {
		return ""
	}
	return ws
}

// loadTasks fetches the task list for the request's workspace and writes the
// snapshot headers. It replies with an error and returns false on failure.
func (s *Server) loadTasks(c *gin.Context, view string) ([]api.Task, bool) {
	res, err := s.tasks.Tasks(c.Request.Context(), workspaceScope(c))
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, source.ErrOffline) {
			status = http.StatusServiceUnavailable
		}
		fail(c, status, fmt.Errorf("failed to load tasks: %w", err))
		return nil, false
	}

	if res.Stale {
		snapshotFallbacks.Inc()
		c.Header(SnapshotStaleHeader, "true")
	}
	if !res.FetchedAt.IsZero() {
		c.Header(SnapshotFetchedHeader, res.FetchedAt.UTC().Format(time.RFC3339))
	}
	projectedTasks.WithLabelValues(view).Observe(float64(len(res.Tasks)))

	return res.Tasks, true
}

func (s *Server) clock() time.Time {
	return s.now().In(s.loc)
}

type calendarCell struct {
	Date      string                           `json:"date"`
	InMonth   bool                             `json:"inMonth"`
	IsToday   bool                             `json:"isToday"`
	Tasks     []api.Task                       `json:"tasks"`
	Aggregate *projection.CalendarDayAggregate `json:"aggregate,omitempty"`
}

type calendarResponse struct {
	Month string         `json:"month"`
	Cells []calendarCell `json:"cells"`
}

func (s *Server) handleCalendar(c *gin.Context) {
	now := s.clock()
	anchor := now
	if month := c.Query("month"); month != "" {
		parsed, err := time.Parse(monthLayout, month)
		if err != nil {
			badRequest(c, "month must be formatted as YYYY-MM")
			return
		}
		anchor = projection.CivilDate(parsed.Year(), parsed.Month(), 1, s.loc)
	}

	tasks, ok := s.loadTasks(c, "calendar")
	if !ok {
		return
	}

	byDay := projection.GroupTasksByDateIn(tasks, s.loc)
	aggregates := projection.AggregateDays(tasks, s.loc)

	resp := calendarResponse{Month: anchor.Format(monthLayout)}
	for _, cell := range projection.MonthCells(anchor, now) {
		key := projection.DateKey(cell.Date)
		out := calendarCell{
			Date:    key,
			InMonth: cell.InMonth,
			IsToday: cell.IsToday,
			Tasks:   byDay[key],
		}
		if out.Tasks == nil {
			out.Tasks = []api.Task{}
		}
		if agg, ok := aggregates[key]; ok {
			out.Aggregate = &agg
		}
		resp.Cells = append(resp.Cells, out)
	}

	success(c, resp)
}

type boardColumn struct {
	ID       string                 `json:"id"`
	Title    string                 `json:"title"`
	WIPLimit int                    `json:"wipLimit"`
	Stats    projection.ColumnStats `json:"stats"`
	Tasks    []api.Task             `json:"tasks"`
}

type boardResponse struct {
	Sort    projection.SortMode `json:"sort"`
	Columns []boardColumn       `json:"columns"`
}

func (s *Server) handleBoard(c *gin.Context) {
	mode := projection.SortPriority
	if raw := c.Query("sort"); raw != "" {
		parsed, ok := projection.ParseSortMode(raw)
		if !ok {
			badRequest(c, fmt.Sprintf("unknown sort mode %q", raw))
			return
		}
		mode = parsed
	}

	tasks, ok := s.loadTasks(c, "board")
	if !ok {
		return
	}

	columnTasks := projection.ProjectColumns(tasks, s.columns, mode)
	stats := projection.ComputeColumnStats(columnTasks, s.columns, s.clock())

	resp := boardResponse{Sort: mode}
	for _, col := range s.columns {
		resp.Columns = append(resp.Columns, boardColumn{
			ID:       col.ID,
			Title:    col.Title,
			WIPLimit: col.WIPLimit,
			Stats:    stats[col.ID],
			Tasks:    columnTasks[col.ID],
		})
	}
	if unsorted, ok := columnTasks[projection.UnsortedColumnID]; ok {
		resp.Columns = append(resp.Columns, boardColumn{
			ID:    projection.UnsortedColumnID,
			Title: "Unsorted",
			Stats: stats[projection.UnsortedColumnID],
			Tasks: unsorted,
		})
	}

	success(c, resp)
}

func (s *Server) handleDue(c *gin.Context) {
	tasks, ok := s.loadTasks(c, "due")
	if !ok {
		return
	}
	success(c, projection.ClassifyByDueWindow(tasks, s.clock()))
}

// listParams is the query-string form of projection.ListQuery.
type listParams struct {
	Search   string `form:"search"`
	Status   string `form:"status"`
	Priority string `form:"priority"`
	Project  string `form:"project"`
	Sort     string `form:"sort" binding:"omitempty,oneof=title dueDate priority status createdAt updatedAt"`
	Dir      string `form:"dir" binding:"omitempty,oneof=asc desc"`
}

func (s *Server) handleTasks(c *gin.Context) {
	var params listParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, "invalid query: "+err.Error())
		return
	}

	tasks, ok := s.loadTasks(c, "list")
	if !ok {
		return
	}

	query := projection.ListQuery{
		Search:      params.Search,
		Status:      params.Status,
		Priority:    params.Priority,
		WorkspaceID: workspaceScope(c),
		ProjectID:   params.Project,
		SortField:   projection.SortField(params.Sort),
		SortDir:     projection.SortDirection(params.Dir),
	}
	success(c, projection.ApplyListQuery(tasks, query))
}

type analyticsResponse struct {
	Summary  projection.Summary        `json:"summary"`
	Workload []projection.AssigneeLoad `json:"workload"`
}

func (s *Server) handleAnalytics(c *gin.Context) {
	tasks, ok := s.loadTasks(c, "analytics")
	if !ok {
		return
	}
	now := s.clock()
	success(c, analyticsResponse{
		Summary:  projection.Summarize(tasks, now),
		Workload: projection.WorkloadByAssignee(tasks, now),
	})
}
