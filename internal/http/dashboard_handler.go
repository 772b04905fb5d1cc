package httpapi

import (
	"net/http"
	"time"

	"github.com/technolab03/Technolab-dashboard/internal/domain"
	"github.com/technolab03/Technolab-dashboard/internal/export"
	"github.com/technolab03/Technolab-dashboard/internal/query"
	"github.com/technolab03/Technolab-dashboard/internal/repository"
	"github.com/technolab03/Technolab-dashboard/internal/session"

	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

var panelKinds = map[string]bool{
	"records":     true,
	"diagnostics": true,
	"events":      true,
}

// DashboardHandler 仪表盘处理器：listing / detail 渲染、会话事件、导出
type DashboardHandler struct {
	repo     repository.DashboardRepository
	sessions *session.Store
	logger   *zap.Logger
	now      func() time.Time
}

func NewDashboardHandler(repo repository.DashboardRepository, sessions *session.Store, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		repo:     repo,
		sessions: sessions,
		logger:   logger,
		now:      time.Now,
	}
}

type sessionInfo struct {
	SessionID string `json:"session_id"`
	Start     string `json:"start"`
	End       string `json:"end"`
}

func (h *DashboardHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.Create(h.now())
	start, end := sess.Range()
	writeJSON(w, http.StatusOK, Ok(sessionInfo{
		SessionID: sess.ID,
		Start:     start.Format(dateLayout),
		End:       end.Format(dateLayout),
	}))
}

func (h *DashboardHandler) sessionFromRequest(w http.ResponseWriter, id string) (*session.Session, bool) {
	if id == "" {
		writeJSON(w, http.StatusBadRequest, Fail("session is required"))
		return nil, false
	}
	sess, ok := h.sessions.Get(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, Fail("unknown session"))
		return nil, false
	}
	return sess, true
}

// Panel 单个结果面板：表格 + 行数指标 + 面板内错误
type Panel struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
	Count   int        `json:"count"`
	Error   string     `json:"error,omitempty"`
}

func panelFrom(res query.Result) Panel {
	return Panel{
		Columns: res.Table.Columns,
		Rows:    res.Table.Rows,
		Count:   len(res.Table.Rows),
		Error:   res.Err,
	}
}

type clientGroup struct {
	Client  string          `json:"client"`
	Devices []domain.Device `json:"devices"`
}

type listingView struct {
	View         string        `json:"view"`
	ClientFilter string        `json:"client_filter,omitempty"`
	Groups       []clientGroup `json:"groups"`
	Error        string        `json:"error,omitempty"`
}

type detailView struct {
	View         string           `json:"view"`
	DeviceNumber int              `json:"device_number"`
	ClientName   string           `json:"client_name"`
	Start        string           `json:"start"`
	End          string           `json:"end"`
	Panels       map[string]Panel `json:"panels"`
}

// View 渲染一次：Listing 或 Detail 由会话状态机决定
func (h *DashboardHandler) View(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.sessionFromRequest(w, r.URL.Query().Get("session"))
	if !ok {
		return
	}

	state := sess.State()
	if !state.IsDetail() {
		h.renderListing(w, r, sess)
		return
	}
	h.renderDetail(w, r, sess, state.Selection)
}

func (h *DashboardHandler) renderListing(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	res := h.repo.ListDevices(r.Context())
	devices := domain.DevicesFromTable(res.Table)
	filter := sess.ClientFilter()

	var groups []clientGroup
	for _, d := range devices {
		if filter != "" && d.ClientName != filter {
			continue
		}
		if n := len(groups); n > 0 && groups[n-1].Client == d.ClientName {
			groups[n-1].Devices = append(groups[n-1].Devices, d)
			continue
		}
		groups = append(groups, clientGroup{Client: d.ClientName, Devices: []domain.Device{d}})
	}
	if groups == nil {
		groups = []clientGroup{}
	}

	writeJSON(w, http.StatusOK, Ok(listingView{
		View:         "listing",
		ClientFilter: filter,
		Groups:       groups,
		Error:        res.Err,
	}))
}

func (h *DashboardHandler) renderDetail(w http.ResponseWriter, r *http.Request, sess *session.Session, sel *session.Selection) {
	start, end := sess.Range()
	ctx := r.Context()

	records := h.repo.RecordsByDevice(ctx, sel.DeviceNumber, start, end)
	diagnostics := h.repo.DiagnosticsByDevice(ctx, sel.DeviceNumber, start, end)
	events := h.repo.EventsByDevice(ctx, sel.DeviceNumber, start, end)

	// 快照先于响应：导出端点只读快照，保证导出与本次渲染一致
	sess.SetSnapshot("records", records.Table)
	sess.SetSnapshot("diagnostics", diagnostics.Table)
	sess.SetSnapshot("events", events.Table)

	writeJSON(w, http.StatusOK, Ok(detailView{
		View:         "detail",
		DeviceNumber: sel.DeviceNumber,
		ClientName:   sel.ClientName,
		Start:        start.Format("2006-01-02 15:04:05"),
		End:          end.Format("2006-01-02 15:04:05"),
		Panels: map[string]Panel{
			"records":     panelFrom(records),
			"diagnostics": panelFrom(diagnostics),
			"events":      panelFrom(events),
		},
	}))
}

type selectionRequest struct {
	Session      string `json:"session"`
	Event        string `json:"event"`
	DeviceNumber int    `json:"device_number"`
	ClientName   string `json:"client_name"`
}

type selectionResponse struct {
	View      string             `json:"view"`
	Selection *session.Selection `json:"selection,omitempty"`
}

func (h *DashboardHandler) Selection(w http.ResponseWriter, r *http.Request) {
	var req selectionRequest
	if err := readBodyJSON(r, 1<<16, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
		return
	}
	sess, ok := h.sessionFromRequest(w, req.Session)
	if !ok {
		return
	}

	var state session.State
	switch req.Event {
	case "select":
		if req.DeviceNumber <= 0 {
			writeJSON(w, http.StatusBadRequest, Fail("device_number is required"))
			return
		}
		state = sess.ApplyEvent(session.Select{DeviceNumber: req.DeviceNumber, ClientName: req.ClientName})
	case "back":
		state = sess.ApplyEvent(session.Back{})
	default:
		writeJSON(w, http.StatusBadRequest, Fail("event must be select or back"))
		return
	}

	resp := selectionResponse{View: "listing", Selection: state.Selection}
	if state.IsDetail() {
		resp.View = "detail"
	}
	writeJSON(w, http.StatusOK, Ok(resp))
}

type filtersRequest struct {
	Session      string  `json:"session"`
	ClientFilter *string `json:"client_filter,omitempty"`
	Start        string  `json:"start,omitempty"`
	End          string  `json:"end,omitempty"`
}

func (h *DashboardHandler) Filters(w http.ResponseWriter, r *http.Request) {
	var req filtersRequest
	if err := readBodyJSON(r, 1<<16, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
		return
	}
	sess, ok := h.sessionFromRequest(w, req.Session)
	if !ok {
		return
	}

	if req.ClientFilter != nil {
		sess.SetClientFilter(*req.ClientFilter)
	}
	if req.Start != "" || req.End != "" {
		start, err1 := time.Parse(dateLayout, req.Start)
		end, err2 := time.Parse(dateLayout, req.End)
		if err1 != nil || err2 != nil {
			writeJSON(w, http.StatusBadRequest, Fail("start and end must both be YYYY-MM-DD"))
			return
		}
		sess.SetRange(start, end)
	}

	start, end := sess.Range()
	writeJSON(w, http.StatusOK, Ok(sessionInfo{
		SessionID: sess.ID,
		Start:     start.Format(dateLayout),
		End:       end.Format(dateLayout),
	}))
}

// Export 下载上次渲染的面板快照，绝不触发新查询
func (h *DashboardHandler) Export(w http.ResponseWriter, r *http.Request, kind string) {
	if !panelKinds[kind] {
		writeJSON(w, http.StatusNotFound, Fail("unknown export kind"))
		return
	}
	sess, ok := h.sessionFromRequest(w, r.URL.Query().Get("session"))
	if !ok {
		return
	}
	sel := sess.State().Selection
	if sel == nil {
		writeJSON(w, http.StatusConflict, Fail("no device selected"))
		return
	}
	table, ok := sess.Snapshot(kind)
	if !ok {
		writeJSON(w, http.StatusNotFound, Fail("nothing rendered yet for "+kind))
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}

	var payload []byte
	var contentType string
	var err error
	switch format {
	case "csv":
		payload, err = export.CSV(table)
		contentType = "text/csv; charset=utf-8"
	case "xlsx":
		payload, err = export.Workbook(kind, table)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		writeJSON(w, http.StatusBadRequest, Fail("format must be csv or xlsx"))
		return
	}
	if err != nil {
		h.logger.Error("export failed", zap.String("kind", kind), zap.String("format", format), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("export failed"))
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename(kind, sel.DeviceNumber, format)+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}
