package main

import (
	"io"
	"net/http"
	"strconv"
	"sync"

	"panelkeu/models"
	"panelkeu/pkg/panelapi"

	"github.com/gin-gonic/gin"
)

// activeProject is the one cross-component shared value: the project every
// page scopes its fetches by.
type activeProject struct {
	ID   int64
	Name string
}

// projectStore is an observable store for the active project. The sidebar
// selector writes through Update; the header (and anything else mounted)
// subscribes and re-renders on broadcast instead of reading ambient state.
// Values are replaced wholesale, never partially mutated.
type projectStore struct {
	mu   sync.Mutex
	subs map[uint]map[chan activeProject]struct{}
}

func newProjectStore() *projectStore {
	return &projectStore{subs: map[uint]map[chan activeProject]struct{}{}}
}

// Update persists the selection on the session row (durable across restarts)
// and broadcasts it to every subscriber of that session.
func (s *projectStore) Update(sess *models.Session, p activeProject) error {
	err := db.Model(&models.Session{}).Where("id = ?", sess.ID).
		Updates(map[string]any{"warehouse_id": p.ID, "warehouse_name": p.Name}).Error
	if err != nil {
		return err
	}
	sess.WarehouseID = p.ID
	sess.WarehouseName = p.Name

	s.mu.Lock()
	defer s.mu.Unlock()
	for ch := range s.subs[sess.ID] {
		select {
		case ch <- p:
		default: // slow subscriber, skip rather than block the update
		}
	}
	return nil
}

// Subscribe registers a listener for one session. The returned cancel func
// must be called when the listener goes away.
func (s *projectStore) Subscribe(sessionID uint) (<-chan activeProject, func()) {
	ch := make(chan activeProject, 4)
	s.mu.Lock()
	if s.subs[sessionID] == nil {
		s.subs[sessionID] = map[chan activeProject]struct{}{}
	}
	s.subs[sessionID][ch] = struct{}{}
	s.mu.Unlock()
	cancel := func() {
		s.mu.Lock()
		delete(s.subs[sessionID], ch)
		s.mu.Unlock()
	}
	return ch, cancel
}

// drop removes all subscribers of a session, used when it is destroyed.
func (s *projectStore) drop(sessionID uint) {
	s.mu.Lock()
	delete(s.subs, sessionID)
	s.mu.Unlock()
}

// Active reads the current selection from the session row. ok is false when
// no project has been chosen yet; callers must then skip scoped fetches.
func sessionProject(sess *models.Session) (activeProject, bool) {
	if sess.WarehouseID == 0 {
		return activeProject{}, false
	}
	return activeProject{ID: sess.WarehouseID, Name: sess.WarehouseName}, true
}

// selectProjectHandler handles the sidebar selector. The posted id is
// resolved against the project list so a forged name cannot be stored.
func selectProjectHandler(c *gin.Context) {
	sess := currentSession(c)
	id, err := strconv.ParseInt(c.PostForm("warehouse_id"), 10, 64)
	if err != nil || id <= 0 {
		c.Redirect(http.StatusSeeOther, c.DefaultPostForm("next", "/dashboard"))
		return
	}
	list, err := apiClient.AllWarehouses(c.Request.Context(), sess.BearerToken)
	if err != nil {
		if _, handled := apiErrorMessage(c, err, ""); handled {
			return
		}
		c.Redirect(http.StatusSeeOther, c.DefaultPostForm("next", "/dashboard"))
		return
	}
	for _, w := range list {
		if w.ID == id {
			_ = projects.Update(sess, activeProject{ID: w.ID, Name: w.Name})
			break
		}
	}
	c.Redirect(http.StatusSeeOther, c.DefaultPostForm("next", "/dashboard"))
}

// projectEventsHandler streams active-project changes for the header over
// SSE so its displayed name follows the sidebar without a page reload.
func projectEventsHandler(c *gin.Context) {
	sess := currentSession(c)
	ch, cancel := projects.Subscribe(sess.ID)
	defer cancel()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Stream(func(w io.Writer) bool {
		select {
		case p, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent("project", gin.H{"id": p.ID, "name": p.Name})
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

// defaultProject falls back to the first listed project when the session has
// none selected yet.
func defaultProject(c *gin.Context, sess *models.Session) (activeProject, bool) {
	if p, ok := sessionProject(sess); ok {
		return p, true
	}
	list, err := apiClient.AllWarehouses(c.Request.Context(), sess.BearerToken)
	if err != nil || len(list) == 0 {
		return activeProject{}, false
	}
	p := activeProject{ID: list[0].ID, Name: list[0].Name}
	if err := projects.Update(sess, p); err != nil {
		return activeProject{}, false
	}
	return p, true
}

// allProjects loads the selector list, tolerating an empty backend.
func allProjects(c *gin.Context, sess *models.Session) []panelapi.Warehouse {
	list, err := apiClient.AllWarehouses(c.Request.Context(), sess.BearerToken)
	if err != nil {
		return nil
	}
	return list
}
