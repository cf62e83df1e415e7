package models

import "time"

// User is an author account. Username is unique across the store.
type User struct {
	ID           int       `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"uniqueIndex;size:150;not null" validate:"required,max=150,username"`
	PasswordHash string    `json:"password_hash" gorm:"not null" validate:"required"`
	FirstName    string    `json:"first_name" gorm:"size:150" validate:"max=150"`
	LastName     string    `json:"last_name" gorm:"size:150" validate:"max=150"`
	IsStaff      bool      `json:"is_staff"`
	DateJoined   time.Time `json:"date_joined" validate:"required"`
}

// Group is a community posts can be published into.
type Group struct {
	ID          int    `json:"id" gorm:"primaryKey"`
	Title       string `json:"title" gorm:"size:200;not null" validate:"required,max=200"`
	Slug        string `json:"slug" gorm:"uniqueIndex;size:50;not null" validate:"required,max=50,slug"`
	Description string `json:"description" validate:"required"`
}

// Post is a text entry owned by its author.
type Post struct {
	ID        int       `json:"id" gorm:"primaryKey"`
	Text      string    `json:"text" gorm:"not null" validate:"required"`
	CreatedAt time.Time `json:"created_at" gorm:"index" validate:"required"`
	AuthorID  int       `json:"author_id" gorm:"index;not null" validate:"required,gt=0"`
	GroupID   *int      `json:"group_id,omitempty" gorm:"index"`
	Image     string    `json:"image,omitempty" gorm:"size:255"`

	Author *User  `json:"-" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" validate:"-"`
	Group  *Group `json:"-" gorm:"foreignKey:GroupID;constraint:OnDelete:SET NULL" validate:"-"`
}

// Comment belongs to exactly one post.
type Comment struct {
	ID        int       `json:"id" gorm:"primaryKey"`
	PostID    int       `json:"post_id" gorm:"index;not null" validate:"required,gt=0"`
	AuthorID  int       `json:"author_id" gorm:"index;not null" validate:"required,gt=0"`
	Text      string    `json:"text" gorm:"not null" validate:"required"`
	CreatedAt time.Time `json:"created_at" validate:"required"`

	Author *User `json:"-" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" validate:"-"`
	Post   *Post `json:"-" gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" validate:"-"`
}

// Follow is a directed edge: UserID receives AuthorID's posts in their feed.
type Follow struct {
	ID        int       `json:"id" gorm:"primaryKey"`
	UserID    int       `json:"user_id" gorm:"uniqueIndex:idx_follow_pair;not null"`
	AuthorID  int       `json:"author_id" gorm:"uniqueIndex:idx_follow_pair;index;not null"`
	CreatedAt time.Time `json:"created_at"`
}

// Session maps the hash of a cookie token to a user.
type Session struct {
	TokenHash string    `json:"token_hash" gorm:"primaryKey;size:64"`
	UserID    int       `json:"user_id" gorm:"index;not null"`
	ExpiresAt time.Time `json:"expires_at" gorm:"index"`
}
