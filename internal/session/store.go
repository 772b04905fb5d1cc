package session

import (
	"sync"
	"time"

	"github.com/technolab03/Technolab-dashboard/internal/query"

	"github.com/google/uuid"
)

// defaultRangeDays 默认展示最近30天
const defaultRangeDays = 30

// Session 会话私有状态：选中设备、客户过滤、日期范围、上次渲染快照
// （快照供导出使用，保证“导出即所见”，导出时绝不重新查询）
type Session struct {
	ID string

	mu           sync.RWMutex
	state        State
	clientFilter string
	start        time.Time
	end          time.Time
	snapshots    map[string]query.Table
}

func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Session) ApplyEvent(ev Event) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Apply(s.state, ev)
	return s.state
}

func (s *Session) ClientFilter() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.clientFilter
}

func (s *Session) SetClientFilter(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clientFilter = name
}

func (s *Session) Range() (time.Time, time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.start, s.end
}

// SetRange clamps to day bounds so the same calendar day is inclusive on both
// ends. It deliberately does not reject inverted ranges: the query layer
// treats those as empty, and the stored range stays visible to the user.
func (s *Session) SetRange(start, end time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.start = dayStart(start)
	s.end = dayEnd(end)
}

func (s *Session) Snapshot(kind string) (query.Table, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.snapshots[kind]
	return t, ok
}

func (s *Session) SetSnapshot(kind string, t query.Table) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[kind] = t
}

// Store 内存会话表
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewStore() *Store {
	return &Store{sessions: map[string]*Session{}}
}

// Create starts a session in Listing state with the trailing-30-days range.
func (s *Store) Create(now time.Time) *Session {
	sess := &Session{
		ID:        uuid.NewString(),
		start:     dayStart(now.AddDate(0, 0, -defaultRangeDays)),
		end:       dayEnd(now),
		snapshots: map[string]query.Table{},
	}
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return sess
}

func (s *Store) Get(id string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func dayEnd(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}
