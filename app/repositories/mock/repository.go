package mock

import (
	"context"
	"sort"
	"sync"
	"time"

	"yatube/app/models"
	"yatube/app/repositories"
)

// NewStore returns a Store backed entirely by the in-memory repositories.
func NewStore() *repositories.Store {
	return repositories.NewStore(
		NewUserRepository(),
		NewGroupRepository(),
		NewPostRepository(),
		NewCommentRepository(),
		NewFollowRepository(),
		NewSessionRepository(),
		nil,
	)
}

type UserRepository struct {
	users  map[int]*models.User
	nextID int
	mutex  sync.RWMutex
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[int]*models.User), nextID: 1}
}

func (m *UserRepository) Create(ctx context.Context, user *models.User) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for _, u := range m.users {
		if u.Username == user.Username {
			return repositories.ErrDuplicate
		}
	}
	user.BeforeCreate()
	user.ID = m.nextID
	m.nextID++
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *UserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	user, exists := m.users[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	u := *user
	return &u, nil
}

func (m *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	for _, user := range m.users {
		if user.Username == username {
			u := *user
			return &u, nil
		}
	}
	return nil, repositories.ErrNotFound
}

type GroupRepository struct {
	groups map[int]*models.Group
	nextID int
	mutex  sync.RWMutex
}

func NewGroupRepository() *GroupRepository {
	return &GroupRepository{groups: make(map[int]*models.Group), nextID: 1}
}

func (m *GroupRepository) Create(ctx context.Context, group *models.Group) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for _, g := range m.groups {
		if g.Slug == group.Slug {
			return repositories.ErrDuplicate
		}
	}
	group.ID = m.nextID
	m.nextID++
	stored := *group
	m.groups[group.ID] = &stored
	return nil
}

func (m *GroupRepository) GetByID(ctx context.Context, id int) (*models.Group, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	group, exists := m.groups[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	g := *group
	return &g, nil
}

func (m *GroupRepository) GetBySlug(ctx context.Context, slug string) (*models.Group, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	for _, group := range m.groups {
		if group.Slug == slug {
			g := *group
			return &g, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *GroupRepository) List(ctx context.Context) ([]*models.Group, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	groups := make([]*models.Group, 0, len(m.groups))
	for _, group := range m.groups {
		g := *group
		groups = append(groups, &g)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].ID < groups[j].ID })
	return groups, nil
}

type PostRepository struct {
	posts  map[int]*models.Post
	nextID int
	mutex  sync.RWMutex
}

func NewPostRepository() *PostRepository {
	return &PostRepository{posts: make(map[int]*models.Post), nextID: 1}
}

func (m *PostRepository) Clear() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.posts = make(map[int]*models.Post)
	m.nextID = 1
}

// PostRepository implementation
func (m *PostRepository) Create(ctx context.Context, post *models.Post) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	post.BeforeCreate()
	post.ID = m.nextID
	m.nextID++
	m.posts[post.ID] = detach(post)
	return nil
}

func (m *PostRepository) GetByID(ctx context.Context, id int) (*models.Post, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	post, exists := m.posts[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	return detach(post), nil
}

func (m *PostRepository) Update(ctx context.Context, post *models.Post) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.posts[post.ID]; !exists {
		return repositories.ErrNotFound
	}
	m.posts[post.ID] = detach(post)
	return nil
}

func (m *PostRepository) Delete(ctx context.Context, id int) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.posts[id]; !exists {
		return repositories.ErrNotFound
	}
	delete(m.posts, id)
	return nil
}

func (m *PostRepository) List(ctx context.Context) ([]*models.Post, error) {
	return m.filter(func(*models.Post) bool { return true }), nil
}

func (m *PostRepository) ListByGroup(ctx context.Context, groupID int) ([]*models.Post, error) {
	return m.filter(func(p *models.Post) bool { return p.InGroup(groupID) }), nil
}

func (m *PostRepository) ListByAuthor(ctx context.Context, authorID int) ([]*models.Post, error) {
	return m.filter(func(p *models.Post) bool { return p.AuthorID == authorID }), nil
}

func (m *PostRepository) ListByAuthors(ctx context.Context, authorIDs []int) ([]*models.Post, error) {
	set := make(map[int]bool, len(authorIDs))
	for _, id := range authorIDs {
		set[id] = true
	}
	return m.filter(func(p *models.Post) bool { return set[p.AuthorID] }), nil
}

func (m *PostRepository) filter(keep func(*models.Post) bool) []*models.Post {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	posts := []*models.Post{}
	for _, post := range m.posts {
		if keep(post) {
			posts = append(posts, detach(post))
		}
	}
	sort.Slice(posts, func(i, j int) bool {
		if posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].ID > posts[j].ID
		}
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
	return posts
}

// detach copies a post without its hydrated relations, mirroring what a
// persistent store hands back.
func detach(post *models.Post) *models.Post {
	p := *post
	p.Author = nil
	p.Group = nil
	if post.GroupID != nil {
		id := *post.GroupID
		p.GroupID = &id
	}
	return &p
}

type CommentRepository struct {
	comments map[int]*models.Comment
	nextID   int
	mutex    sync.RWMutex
}

func NewCommentRepository() *CommentRepository {
	return &CommentRepository{comments: make(map[int]*models.Comment), nextID: 1}
}

// CommentRepository implementation
func (m *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	comment.BeforeCreate()
	comment.ID = m.nextID
	m.nextID++
	stored := *comment
	stored.Author, stored.Post = nil, nil
	m.comments[comment.ID] = &stored
	return nil
}

func (m *CommentRepository) ListByPost(ctx context.Context, postID int) ([]*models.Comment, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	comments := []*models.Comment{}
	for _, comment := range m.comments {
		if comment.PostID == postID {
			c := *comment
			comments = append(comments, &c)
		}
	}
	sort.Slice(comments, func(i, j int) bool { return comments[i].ID < comments[j].ID })
	return comments, nil
}

func (m *CommentRepository) DeleteByPost(ctx context.Context, postID int) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for id, comment := range m.comments {
		if comment.PostID == postID {
			delete(m.comments, id)
		}
	}
	return nil
}

// Count returns the number of stored comments
func (m *CommentRepository) Count() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.comments)
}

type followKey struct{ user, author int }

type FollowRepository struct {
	follows map[followKey]*models.Follow
	nextID  int
	mutex   sync.Mutex
}

func NewFollowRepository() *FollowRepository {
	return &FollowRepository{follows: make(map[followKey]*models.Follow), nextID: 1}
}

func (m *FollowRepository) GetOrCreate(ctx context.Context, userID, authorID int) (*models.Follow, bool, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	key := followKey{userID, authorID}
	if f, exists := m.follows[key]; exists {
		copied := *f
		return &copied, false, nil
	}
	f, err := models.NewFollow(userID, authorID)
	if err != nil {
		return nil, false, err
	}
	f.ID = m.nextID
	m.nextID++
	m.follows[key] = f
	copied := *f
	return &copied, true, nil
}

func (m *FollowRepository) Delete(ctx context.Context, userID, authorID int) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	delete(m.follows, followKey{userID, authorID})
	return nil
}

func (m *FollowRepository) Exists(ctx context.Context, userID, authorID int) (bool, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	_, exists := m.follows[followKey{userID, authorID}]
	return exists, nil
}

func (m *FollowRepository) ListAuthorIDs(ctx context.Context, userID int) ([]int, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	ids := []int{}
	for key := range m.follows {
		if key.user == userID {
			ids = append(ids, key.author)
		}
	}
	sort.Ints(ids)
	return ids, nil
}

// Count returns the number of stored edges
func (m *FollowRepository) Count() int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return len(m.follows)
}

type SessionRepository struct {
	sessions map[string]*models.Session
	mutex    sync.RWMutex
}

func NewSessionRepository() *SessionRepository {
	return &SessionRepository{sessions: make(map[string]*models.Session)}
}

func (m *SessionRepository) Create(ctx context.Context, session *models.Session) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	s := *session
	m.sessions[session.TokenHash] = &s
	return nil
}

func (m *SessionRepository) Get(ctx context.Context, tokenHash string) (*models.Session, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	session, exists := m.sessions[tokenHash]
	if !exists || session.Expired(time.Now()) {
		return nil, repositories.ErrNotFound
	}
	s := *session
	return &s, nil
}

func (m *SessionRepository) Delete(ctx context.Context, tokenHash string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	delete(m.sessions, tokenHash)
	return nil
}
