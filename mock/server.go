package mock

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/granddizzy/orders/schema"
	"github.com/shopspring/decimal"
)

const (
	defaultPerPage  = 15
	defaultTokenTTL = time.Hour

	// DefaultEmail and DefaultPassword identify the seeded administrator account.
	DefaultEmail    = "admin@example.com"
	DefaultPassword = "secret"
)

type account struct {
	password string
	userId   int
}

// Server is an in-memory order-management API.
type Server struct {
	Products    *table[schema.Product]
	Contractors *table[schema.Contractor]
	Orders      *table[schema.Order]
	Users       *table[schema.User]

	mu         sync.RWMutex
	accounts   map[string]account
	secret     []byte
	tokenTTL   time.Duration
	bare       map[string]bool
	listCalls  map[string]int
	latency    time.Duration
	productCnt int
	cors       *Cors
}

type Option func(s *Server)

// WithProducts sets the number of seeded products
func WithProducts(count int) Option {
	return func(s *Server) {
		s.productCnt = count
	}
}

// WithBareArray answers list calls of resource with a plain JSON array
func WithBareArray(resource string) Option {
	return func(s *Server) {
		s.bare[resource] = true
	}
}

// WithTokenTTL sets issued token lifetime
func WithTokenTTL(ttl time.Duration) Option {
	return func(s *Server) {
		s.tokenTTL = ttl
	}
}

// WithLatency delays every resource response
func WithLatency(latency time.Duration) Option {
	return func(s *Server) {
		s.latency = latency
	}
}

// WithCors enables cross origin headers
func WithCors(cors *Cors) Option {
	return func(s *Server) {
		s.cors = cors
	}
}

// New creates a seeded server.
func New(options ...Option) *Server {
	ret := &Server{
		Products:    newTable(matchProduct, func(p schema.Product, id int) schema.Product { p.Id = id; return p }),
		Contractors: newTable(matchContractor, func(c schema.Contractor, id int) schema.Contractor { c.Id = id; return c }),
		Orders:      newTable(matchOrder, func(o schema.Order, id int) schema.Order { o.Id = id; return o }),
		Users:       newTable(matchUser, func(u schema.User, id int) schema.User { u.Id = id; return u }),
		accounts:    map[string]account{},
		secret:      []byte("mock-secret"),
		tokenTTL:    defaultTokenTTL,
		bare:        map[string]bool{},
		listCalls:   map[string]int{},
		productCnt:  60,
	}
	for _, opt := range options {
		opt(ret)
	}
	ret.Orders.prepare = orderTotal
	ret.seed()
	return ret
}

func (s *Server) seed() {
	for i := 1; i <= s.productCnt; i++ {
		s.Products.seed(schema.Product{
			Id:    i,
			Name:  fmt.Sprintf("Product %d", i),
			Sku:   fmt.Sprintf("SKU-%04d", i),
			Price: decimal.NewFromInt(int64(i * 10)),
			Stock: 100,
		})
	}
	for i := 1; i <= 10; i++ {
		s.Contractors.seed(schema.Contractor{Id: i, Name: fmt.Sprintf("Contractor %d", i), Email: fmt.Sprintf("c%d@example.com", i)})
	}
	s.Orders.seed(orderTotal(schema.Order{
		Id:           1,
		ContractorId: 1,
		Status:       schema.OrderStatusNew,
		Items:        []schema.OrderLine{{ProductId: 1, Quantity: 2, Price: decimal.NewFromInt(10)}},
	}))
	s.Users.seed(
		schema.User{Id: 1, Name: "Admin", Email: DefaultEmail, Roles: []schema.Role{{Id: 1, Name: "admin"}}},
		schema.User{Id: 2, Name: "Manager", Email: "manager@example.com", Roles: []schema.Role{{Id: 2, Name: "manager"}}},
	)
	s.accounts[DefaultEmail] = account{password: DefaultPassword, userId: 1}
}

// ListCalls returns number of list requests served for resource.
func (s *Server) ListCalls(resource string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listCalls[resource]
}

// Revoke invalidates every issued token.
func (s *Server) Revoke() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.secret = []byte(fmt.Sprintf("mock-secret-%d", time.Now().UnixNano()))
}

// Handler returns the API router; routes are mounted under /api.
func (s *Server) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())
	if s.cors != nil {
		r.Use(s.cors.middleware)
	}
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "route not found", "path": c.Request.URL.Path})
	})

	api := r.Group("/api")
	api.POST("/login", s.login)
	api.POST("/register", s.register)

	private := api.Group("", s.authenticate, s.delay)
	mountResource(private, "products", s, s.Products)
	mountResource(private, "contractors", s, s.Contractors)
	mountResource(private, "orders", s, s.Orders)
	mountResource(private, "users", s, s.Users)
	private.POST("/users/:id/roles", s.addRole)
	private.DELETE("/users/:id/roles/:role", s.removeRole)
	return r
}

func (s *Server) delay(c *gin.Context) {
	if s.latency > 0 {
		time.Sleep(s.latency)
	}
	c.Next()
}

func mountResource[T schema.Entity](group *gin.RouterGroup, name string, s *Server, t *table[T]) {
	group.GET("/"+name, func(c *gin.Context) {
		page := queryInt(c, "page", 1)
		perPage := queryInt(c, "per_page", defaultPerPage)
		s.mu.Lock()
		s.listCalls[name]++
		bare := s.bare[name]
		s.mu.Unlock()
		result := t.page(page, perPage, strings.TrimSpace(c.Query("search")))
		if bare {
			c.JSON(http.StatusOK, result.Data)
			return
		}
		c.JSON(http.StatusOK, result)
	})
	group.GET("/"+name+"/:id", func(c *gin.Context) {
		id, ok := paramId(c)
		if !ok {
			return
		}
		item, found := t.get(id)
		if !found {
			c.JSON(http.StatusNotFound, gin.H{"message": name + " not found"})
			return
		}
		c.JSON(http.StatusOK, item)
	})
	group.POST("/"+name, func(c *gin.Context) {
		body, _ := io.ReadAll(c.Request.Body)
		item, err := t.create(body)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, item)
	})
	group.PUT("/"+name+"/:id", func(c *gin.Context) {
		id, ok := paramId(c)
		if !ok {
			return
		}
		body, _ := io.ReadAll(c.Request.Body)
		item, found, err := t.update(id, body)
		switch {
		case !found:
			c.JSON(http.StatusNotFound, gin.H{"message": name + " not found"})
		case err != nil:
			c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
		default:
			c.JSON(http.StatusOK, item)
		}
	})
	group.DELETE("/"+name+"/:id", func(c *gin.Context) {
		id, ok := paramId(c)
		if !ok {
			return
		}
		if !t.delete(id) {
			c.JSON(http.StatusNotFound, gin.H{"message": name + " not found"})
			return
		}
		c.Status(http.StatusNoContent)
	})
}

func (s *Server) addRole(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}
	var assignment schema.RoleAssignment
	if err := c.ShouldBindJSON(&assignment); err != nil || assignment.Role == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "role is required"})
		return
	}
	user, found := s.Users.get(id)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"message": "users not found"})
		return
	}
	for _, role := range user.Roles {
		if role.Name == assignment.Role {
			c.JSON(http.StatusOK, user)
			return
		}
	}
	user.Roles = append(append([]schema.Role{}, user.Roles...), schema.Role{Id: len(user.Roles) + 100, Name: assignment.Role})
	s.Users.replace(user)
	c.JSON(http.StatusOK, user)
}

func (s *Server) removeRole(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}
	user, found := s.Users.get(id)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"message": "users not found"})
		return
	}
	roles := make([]schema.Role, 0, len(user.Roles))
	for _, role := range user.Roles {
		if role.Name != c.Param("role") {
			roles = append(roles, role)
		}
	}
	user.Roles = roles
	s.Users.replace(user)
	c.JSON(http.StatusOK, user)
}

func queryInt(c *gin.Context, name string, fallback int) int {
	value, err := strconv.Atoi(c.Query(name))
	if err != nil || value < 1 {
		return fallback
	}
	return value
}

func paramId(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "invalid id"})
		return 0, false
	}
	return id, true
}

func matchProduct(p schema.Product, search string) bool {
	return containsFold(p.Name, search) || containsFold(p.Sku, search)
}

func matchContractor(c schema.Contractor, search string) bool {
	return containsFold(c.Name, search) || containsFold(c.Email, search)
}

func matchOrder(o schema.Order, search string) bool {
	return containsFold(strconv.Itoa(o.Id), search) || containsFold(o.Status, search)
}

func matchUser(u schema.User, search string) bool {
	return containsFold(u.Name, search) || containsFold(u.Email, search)
}

func containsFold(value, search string) bool {
	return strings.Contains(strings.ToLower(value), strings.ToLower(search))
}

func orderTotal(o schema.Order) schema.Order {
	total := decimal.Zero
	for _, line := range o.Items {
		total = total.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	o.Total = total
	return o
}

// HTTPTestServer is a running mock API.
type HTTPTestServer struct {
	*httptest.Server
	API *Server
	// URL is the API base URL (server URL + /api).
	URL string
}

// NewHTTPTestServer starts a mock API on a loopback port.
func NewHTTPTestServer(options ...Option) *HTTPTestServer {
	gin.SetMode(gin.TestMode)
	srv := New(options...)
	httpServer := httptest.NewServer(srv.Handler())
	return &HTTPTestServer{Server: httpServer, API: srv, URL: httpServer.URL + "/api"}
}
