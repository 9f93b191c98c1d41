// Package apitest runs an in-memory gift-list service for tests. It speaks
// the same paths and payload shapes as the real backend, including its
// quirks: decimal prices as strings, space-separated timestamps and
// optional pagination envelopes.
package apitest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

const timeLayout = "2006-01-02 15:04:05"

type User struct {
	ID            int64
	TelegramID    int64
	FirstName     string
	LastName      string
	Username      string
	PhotoURL      string
	Language      string
	ThemeColor    string
	InvitedBy     *int64
	GiftsGiven    int
	GiftsReceived int
	Subscriptions []int64
	Registered    time.Time
	LastVisit     time.Time
}

type Wishlist struct {
	ID          int64
	UserID      int64
	Name        string
	Description string
	IsPublic    bool
	Order       int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Wish struct {
	ID         int64
	WishlistID int64
	UserID     int64
	Title      string
	Comment    string
	Link       string
	ImageURL   string
	Price      string
	Currency   string
	Order      int
	Status     string
	ReservedBy *int64
	GiftedBy   *int64
	ReservedAt *time.Time
	GiftedAt   *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Call is one request the server received.
type Call struct {
	Method    string
	Path      string
	Query     string
	RequestID string
	Body      map[string]interface{}
}

type failure struct {
	status int
	body   string
}

type Server struct {
	*httptest.Server

	mu        sync.Mutex
	nextID    int64
	now       time.Time
	users     map[int64]*User
	wishlists map[int64]*Wishlist
	wishes    map[int64]*Wish
	calls     []Call
	failures  map[string]failure
	delay     time.Duration
	paginate  bool
}

// New starts a server that is closed when the test ends.
func New(t testing.TB) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := &Server{
		now:       time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC),
		users:     make(map[int64]*User),
		wishlists: make(map[int64]*Wishlist),
		wishes:    make(map[int64]*Wish),
		failures:  make(map[string]failure),
	}

	r := gin.New()
	r.Use(logRequests(), s.record, s.inject)

	users := r.Group("/api/users")
	{
		users.GET("/", s.listUsers)
		users.POST("/register_or_get/", s.registerOrGet)
		users.GET("/by_telegram_id/", s.userByTelegramID)
		users.GET("/:id/", s.getUser)
		users.PATCH("/:id/", s.patchUser)
		users.GET("/:id/subscriptions/", s.subscriptions)
		users.GET("/:id/subscribers/", s.subscribers)
		users.POST("/:id/subscribe/", s.subscribe)
		users.POST("/:id/unsubscribe/", s.unsubscribe)
	}

	wishlists := r.Group("/api/wishlists")
	{
		wishlists.GET("/", s.listWishlists)
		wishlists.POST("/", s.createWishlist)
		wishlists.GET("/by_telegram_id/", s.wishlistsByTelegramID)
		wishlists.GET("/:id/", s.getWishlist)
		wishlists.PATCH("/:id/", s.patchWishlist)
		wishlists.DELETE("/:id/", s.deleteWishlist)
	}

	wishes := r.Group("/api/wishes")
	{
		wishes.GET("/", s.listWishes)
		wishes.POST("/", s.createWish)
		wishes.GET("/by_telegram_id/", s.wishesByTelegramID)
		wishes.GET("/:id/", s.getWish)
		wishes.PATCH("/:id/", s.patchWish)
		wishes.DELETE("/:id/", s.deleteWish)
		wishes.POST("/:id/fulfill/", s.fulfill)
		wishes.DELETE("/:id/fulfill/", s.unfulfill)
		wishes.POST("/:id/move/", s.move)
	}

	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)
	return s
}

// Paginate wraps list replies in a {"count", "results"} envelope.
func (s *Server) Paginate(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paginate = on
}

// SetDelay holds every reply for d (or until the client goes away).
func (s *Server) SetDelay(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delay = d
}

// FailNext makes the next request to method+path answer status with a JSON body.
func (s *Server) FailNext(method, path string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method+" "+path] = failure{status: status, body: body}
}

// Calls returns every request received so far.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Call, len(s.calls))
	copy(out, s.calls)
	return out
}

// CallsTo returns the requests received for method+path.
func (s *Server) CallsTo(method, path string) []Call {
	var out []Call
	for _, c := range s.Calls() {
		if c.Method == method && c.Path == path {
			out = append(out, c)
		}
	}
	return out
}

// Mutations counts non-GET requests.
func (s *Server) Mutations() int {
	n := 0
	for _, c := range s.Calls() {
		if c.Method != http.MethodGet {
			n++
		}
	}
	return n
}

func (s *Server) AddUser(u User) *User {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	u.ID = s.nextID
	if u.Language == "" {
		u.Language = "ru"
	}
	if u.ThemeColor == "" {
		u.ThemeColor = "light"
	}
	u.Registered, u.LastVisit = s.now, s.now
	stored := u
	s.users[u.ID] = &stored
	out := stored
	return &out
}

func (s *Server) AddWishlist(w Wishlist) *Wishlist {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	w.ID = s.nextID
	w.CreatedAt, w.UpdatedAt = s.tick(), s.now
	stored := w
	s.wishlists[w.ID] = &stored
	out := stored
	return &out
}

// AddWish stores w; the owner is taken from its wishlist.
func (s *Server) AddWish(w Wish) *Wish {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	w.ID = s.nextID
	if wl, ok := s.wishlists[w.WishlistID]; ok {
		w.UserID = wl.UserID
	}
	if w.Status == "" {
		w.Status = "active"
	}
	if w.Currency == "" {
		w.Currency = "₽"
	}
	if w.CreatedAt.IsZero() {
		w.CreatedAt = s.tick()
	}
	w.UpdatedAt = w.CreatedAt
	stored := w
	s.wishes[w.ID] = &stored
	out := stored
	return &out
}

// Follow adds a follower -> followed edge.
func (s *Server) Follow(followerID, followedID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[followerID]; ok {
		u.Subscriptions = appendUnique(u.Subscriptions, followedID)
	}
}

// User returns a snapshot of a stored user.
func (s *Server) User(id int64) (User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return User{}, false
	}
	return *u, true
}

// Wish returns a snapshot of a stored wish.
func (s *Server) Wish(id int64) (Wish, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.wishes[id]
	if !ok {
		return Wish{}, false
	}
	return *w, true
}

// Wishlists returns the wishlists owned by userID.
func (s *Server) Wishlists(userID int64) []Wishlist {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Wishlist
	for _, wl := range s.sortedWishlists() {
		if wl.UserID == userID {
			out = append(out, *wl)
		}
	}
	return out
}

// tick advances the clock so created_at values are strictly ordered.
func (s *Server) tick() time.Time {
	s.now = s.now.Add(time.Minute)
	return s.now
}

func (s *Server) record(c *gin.Context) {
	call := Call{
		Method:    c.Request.Method,
		Path:      c.Request.URL.Path,
		Query:     c.Request.URL.RawQuery,
		RequestID: c.GetHeader("X-Request-ID"),
	}
	if c.Request.Body != nil {
		raw, _ := io.ReadAll(c.Request.Body)
		c.Request.Body = io.NopCloser(bytes.NewReader(raw))
		if len(raw) > 0 {
			_ = json.Unmarshal(raw, &call.Body)
		}
	}
	s.mu.Lock()
	s.calls = append(s.calls, call)
	delay := s.delay
	s.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-c.Request.Context().Done():
			c.Abort()
			return
		}
	}
	c.Next()
}

func (s *Server) inject(c *gin.Context) {
	key := c.Request.Method + " " + c.Request.URL.Path
	s.mu.Lock()
	f, ok := s.failures[key]
	if ok {
		delete(s.failures, key)
	}
	s.mu.Unlock()
	if ok {
		c.Data(f.status, "application/json", []byte(f.body))
		c.Abort()
		return
	}
	c.Next()
}

func (s *Server) writeList(c *gin.Context, items []gin.H) {
	s.mu.Lock()
	paginate := s.paginate
	s.mu.Unlock()
	if items == nil {
		items = []gin.H{}
	}
	if paginate {
		c.JSON(http.StatusOK, gin.H{"count": len(items), "next": nil, "previous": nil, "results": items})
		return
	}
	c.JSON(http.StatusOK, items)
}

func notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	return id, err == nil
}

func queryID(c *gin.Context, key string) (int64, bool) {
	id, err := strconv.ParseInt(c.Query(key), 10, 64)
	return id, err == nil
}

func bodyOf(c *gin.Context) map[string]interface{} {
	body := map[string]interface{}{}
	_ = c.ShouldBindJSON(&body)
	return body
}

// intField reads numbers sent as JSON numbers or strings. present is true
// when the key exists, even if null.
func intField(body map[string]interface{}, key string) (v *int64, present bool) {
	raw, ok := body[key]
	if !ok {
		return nil, false
	}
	switch x := raw.(type) {
	case float64:
		n := int64(x)
		return &n, true
	case string:
		if n, err := strconv.ParseInt(x, 10, 64); err == nil {
			return &n, true
		}
	}
	return nil, true
}

func strField(body map[string]interface{}, key string) (string, bool) {
	raw, ok := body[key]
	if !ok {
		return "", false
	}
	switch x := raw.(type) {
	case string:
		return x, true
	case nil:
		return "", true
	default:
		return fmt.Sprint(x), true
	}
}

func appendUnique(ids []int64, id int64) []int64 {
	for _, x := range ids {
		if x == id {
			return ids
		}
	}
	return append(ids, id)
}

func fmtTime(t *time.Time) interface{} {
	if t == nil || t.IsZero() {
		return nil
	}
	return t.Format(timeLayout)
}

func idOrNil(id *int64) interface{} {
	if id == nil {
		return nil
	}
	return *id
}

func (s *Server) userByTG(telegramID int64) *User {
	for _, u := range s.users {
		if u.TelegramID == telegramID {
			return u
		}
	}
	return nil
}

func (s *Server) sortedUsers() []*User {
	out := make([]*User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Server) sortedWishlists() []*Wishlist {
	out := make([]*Wishlist, 0, len(s.wishlists))
	for _, wl := range s.wishlists {
		out = append(out, wl)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (s *Server) sortedWishes() []*Wish {
	out := make([]*Wish, 0, len(s.wishes))
	for _, w := range s.wishes {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}
