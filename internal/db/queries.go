package db

import (
	"context"
	"database/sql"
	"time"
)

// DBTX is the subset of *sql.DB used by Queries, so they also run inside
// transactions.
type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

// Queries provides typed access to the posts table.
type Queries struct {
	db DBTX
}

// New creates Queries backed by db.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// Post is a recorded publish, kept for operational history only. It does
// not feed back into folder selection.
type Post struct {
	ID              int64
	FolderID        string
	FolderName      string
	ImageFile       string
	DescriptionFile string
	Platform        string
	PlatformPostID  string
	ReplyPostID     sql.NullString
	PostURL         sql.NullString
	AltText         string
	CreatedAt       time.Time
}

// CreatePostParams holds the fields for recording a publish.
type CreatePostParams struct {
	FolderID        string
	FolderName      string
	ImageFile       string
	DescriptionFile string
	Platform        string
	PlatformPostID  string
	ReplyPostID     sql.NullString
	PostURL         sql.NullString
	AltText         string
}

const createPost = `
INSERT INTO posts (folder_id, folder_name, image_file, description_file, platform, platform_post_id, reply_post_id, post_url, alt_text)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING id, folder_id, folder_name, image_file, description_file, platform, platform_post_id, reply_post_id, post_url, alt_text, created_at
`

// CreatePost records a successful publish.
func (q *Queries) CreatePost(ctx context.Context, arg CreatePostParams) (Post, error) {
	row := q.db.QueryRowContext(ctx, createPost,
		arg.FolderID,
		arg.FolderName,
		arg.ImageFile,
		arg.DescriptionFile,
		arg.Platform,
		arg.PlatformPostID,
		arg.ReplyPostID,
		arg.PostURL,
		arg.AltText,
	)

	var p Post
	err := row.Scan(
		&p.ID,
		&p.FolderID,
		&p.FolderName,
		&p.ImageFile,
		&p.DescriptionFile,
		&p.Platform,
		&p.PlatformPostID,
		&p.ReplyPostID,
		&p.PostURL,
		&p.AltText,
		&p.CreatedAt,
	)
	return p, err
}

const listRecentPosts = `
SELECT id, folder_id, folder_name, image_file, description_file, platform, platform_post_id, reply_post_id, post_url, alt_text, created_at
FROM posts
ORDER BY created_at DESC, id DESC
LIMIT ?
`

// ListRecentPosts returns the most recent recorded posts.
func (q *Queries) ListRecentPosts(ctx context.Context, limit int64) ([]Post, error) {
	rows, err := q.db.QueryContext(ctx, listRecentPosts, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []Post
	for rows.Next() {
		var p Post
		if err := rows.Scan(
			&p.ID,
			&p.FolderID,
			&p.FolderName,
			&p.ImageFile,
			&p.DescriptionFile,
			&p.Platform,
			&p.PlatformPostID,
			&p.ReplyPostID,
			&p.PostURL,
			&p.AltText,
			&p.CreatedAt,
		); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

const countPostsToday = `
SELECT COUNT(*)
FROM posts
WHERE platform = ? AND created_at >= date('now')
`

// CountPostsToday counts posts recorded today for a platform, backing the
// daily cap in serve mode.
func (q *Queries) CountPostsToday(ctx context.Context, platform string) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countPostsToday, platform).Scan(&count)
	return count, err
}

const countPosts = `SELECT COUNT(*) FROM posts`

// CountPosts counts all recorded posts.
func (q *Queries) CountPosts(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countPosts).Scan(&count)
	return count, err
}
