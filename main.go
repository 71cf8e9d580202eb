package main

import (
	"net/http"
	"os"
	"strconv"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/km-arc/go-container/framework/app"
	"github.com/km-arc/go-container/framework/container"
	gohttp "github.com/km-arc/go-container/framework/http"
	"github.com/km-arc/go-container/framework/routing"
	"github.com/km-arc/go-container/framework/view"
)

func main() {
	application := app.New() // loads .env automatically

	// ── Service graph ─────────────────────────────────────────────────────────

	// UserRepository → *memoryUsers, one store for the whole app
	must(container.Singleton(application.Container, func(c *container.Container) (*memoryUsers, error) {
		return newMemoryUsers(), nil
	}))
	must(container.Implement[UserRepository, *memoryUsers](application.Container))

	// Auto-wired: no registration, just constructors
	must(application.Constructors(NewUserService, NewUserController, NewUsersPage))

	application.Boot()
	r := application.Router()

	// ── Routes ────────────────────────────────────────────────────────────────

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		gohttp.NewResponse(w).Success(map[string]any{"message": "Welcome to Go-Container!"})
	})

	r.Prefix("/api/v1", func(api *routing.Router) {
		// Resource controller built per request from the request scope
		api.Resource("/users", container.TypeOf[*UserController]())

		// Method injection
		api.Get("/stats", api.Action(func(svc *UserService, id routing.RequestID) map[string]any {
			return map[string]any{"users": svc.Count(), "request": id}
		}))
	})

	r.Get("/users", func(w http.ResponseWriter, req *http.Request) {
		application.Views().In(routing.ScopeOf(req)).View(w, container.TypeOf[*UsersPage]())
	})

	if err := application.Run(); err != nil {
		application.Logger().Error("application stopped", zap.Error(err))
		os.Exit(1)
	}
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// ── Domain ────────────────────────────────────────────────────────────────────

type User struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type UserRepository interface {
	All() []User
	Find(id int) (User, bool)
	Save(u User) User
	Delete(id int) bool
}

type memoryUsers struct {
	mu    sync.RWMutex
	next  int
	users map[int]User
}

func newMemoryUsers() *memoryUsers {
	m := &memoryUsers{users: make(map[int]User)}
	m.Save(User{Name: "Alice", Email: "alice@example.com"})
	m.Save(User{Name: "Bob", Email: "bob@example.com"})
	return m
}

func (m *memoryUsers) All() []User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]User, 0, len(m.users))
	for id := 1; id <= m.next; id++ {
		if u, ok := m.users[id]; ok {
			out = append(out, u)
		}
	}
	return out
}

func (m *memoryUsers) Find(id int) (User, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	return u, ok
}

func (m *memoryUsers) Save(u User) User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u.ID == 0 {
		m.next++
		u.ID = m.next
	}
	m.users[u.ID] = u
	return u
}

func (m *memoryUsers) Delete(id int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.users[id]
	delete(m.users, id)
	return ok
}

// UserService is built by the container from its constructor.
type UserService struct {
	repo   UserRepository
	logger *zap.Logger
}

func NewUserService(repo UserRepository, logger *zap.Logger) *UserService {
	return &UserService{repo: repo, logger: logger}
}

func (s *UserService) Count() int { return len(s.repo.All()) }

func (s *UserService) Register(name, email string) (User, error) {
	if name == "" || email == "" {
		return User{}, errors.New("name and email are required")
	}
	u := s.repo.Save(User{Name: name, Email: email})
	s.logger.Info("user registered", zap.Int("id", u.ID))
	return u, nil
}

// ── Controller ────────────────────────────────────────────────────────────────

// UserController implements routing.ResourceController. Its request and
// response wrappers come from the request scope.
type UserController struct {
	users *UserService
	repo  UserRepository
	req   *gohttp.Request
	res   *gohttp.Response
}

func NewUserController(users *UserService, repo UserRepository, req *gohttp.Request, res *gohttp.Response) *UserController {
	return &UserController{users: users, repo: repo, req: req, res: res}
}

func (c *UserController) Index(w http.ResponseWriter, r *http.Request) {
	c.res.Success(c.repo.All())
}

func (c *UserController) Store(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := c.req.Bind(&body); err != nil {
		c.res.Error(http.StatusBadRequest, err.Error())
		return
	}
	u, err := c.users.Register(body.Name, body.Email)
	if err != nil {
		c.res.Error(http.StatusUnprocessableEntity, err.Error())
		return
	}
	c.res.Created(u)
}

func (c *UserController) Show(w http.ResponseWriter, r *http.Request) {
	u, ok := c.repo.Find(c.id())
	if !ok {
		c.res.NotFound()
		return
	}
	c.res.Success(u)
}

func (c *UserController) Update(w http.ResponseWriter, r *http.Request) {
	u, ok := c.repo.Find(c.id())
	if !ok {
		c.res.NotFound()
		return
	}
	if err := c.req.Bind(&u); err != nil {
		c.res.Error(http.StatusBadRequest, err.Error())
		return
	}
	u.ID = c.id()
	c.res.Success(c.repo.Save(u))
}

func (c *UserController) Destroy(w http.ResponseWriter, r *http.Request) {
	if !c.repo.Delete(c.id()) {
		c.res.NotFound()
		return
	}
	c.res.NoContent()
}

func (c *UserController) id() int {
	id, _ := strconv.Atoi(c.req.RouteParam("id"))
	return id
}

// ── Views ─────────────────────────────────────────────────────────────────────

// UsersPage renders views/users.html.
type UsersPage struct {
	Out   *view.Output
	Users []User
}

func NewUsersPage(out *view.Output, repo UserRepository) *UsersPage {
	return &UsersPage{Out: out, Users: repo.All()}
}

func (p *UsersPage) Template() string { return "users" }
