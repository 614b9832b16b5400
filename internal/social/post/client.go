// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package post

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/taibuivan/dizesi/internal/platform/gateway"
)

// # Contracts

// API is the slice of the gateway used by posts and the pages built on them.
type API interface {
	Request(ctx context.Context, path string, options gateway.Options, out any) error
	RequestMultipart(ctx context.Context, path string, form *gateway.Form, out any) error
}

// FeedKind selects the home feed or the followed-authors feed.
type FeedKind string

const (
	FeedGeneral   FeedKind = "general"
	FeedFollowing FeedKind = "following"
)

// Draft is the input of the post composer.
type Draft struct {
	Title     string
	Content   string
	Image     io.Reader
	ImageName string
}

// # Client

// Client wraps every post endpoint. It holds no state.
type Client struct {
	api API
}

// NewClient constructs a post [Client].
func NewClient(api API) *Client {
	return &Client{api: api}
}

// Feed returns the posts of one feed.
func (client *Client) Feed(ctx context.Context, kind FeedKind) ([]Post, error) {
	var response struct {
		Posts []Post `json:"posts"`
	}
	if err := client.api.Request(ctx, "/posts?feed="+url.QueryEscape(string(kind)), gateway.Options{}, &response); err != nil {
		return nil, err
	}
	return response.Posts, nil
}

// Create submits a new post as a multipart form. New posts await moderation.
func (client *Client) Create(ctx context.Context, draft Draft) (*Post, error) {
	form := gateway.NewForm().
		Field("title", draft.Title).
		Field("content", draft.Content)
	if draft.Image != nil {
		form.File("image", draft.ImageName, draft.Image)
	}

	var created Post
	if err := client.api.RequestMultipart(ctx, "/posts", form, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Delete removes one of the caller's own posts.
func (client *Client) Delete(ctx context.Context, postID int64) error {
	return client.api.Request(ctx, fmt.Sprintf("/posts/%d", postID), gateway.Options{Method: http.MethodDelete}, nil)
}

// Like toggles the caller's like on a post.
func (client *Client) Like(ctx context.Context, postID int64) (LikeResult, error) {
	var result LikeResult
	err := client.api.Request(ctx, "/posts/like", gateway.Options{
		Method: http.MethodPost,
		Body:   map[string]int64{"postId": postID},
	}, &result)
	return result, err
}

// Follow toggles the caller's follow on a user.
func (client *Client) Follow(ctx context.Context, userID int64) (FollowResult, error) {
	var result FollowResult
	err := client.api.Request(ctx, "/posts/follow", gateway.Options{
		Method: http.MethodPost,
		Body:   map[string]int64{"userId": userID},
	}, &result)
	return result, err
}

// FollowState reads whether the caller follows username from the profile endpoint.
func (client *Client) FollowState(ctx context.Context, username string) (bool, error) {
	var response struct {
		User UserRef `json:"user"`
	}
	if err := client.api.Request(ctx, "/profile/"+url.PathEscape(username), gateway.Options{}, &response); err != nil {
		return false, err
	}
	return response.User.IsFollowing, nil
}

// Comments lists the comments of a post.
func (client *Client) Comments(ctx context.Context, postID int64) ([]Comment, error) {
	var response struct {
		Comments []Comment `json:"comments"`
	}
	if err := client.api.Request(ctx, fmt.Sprintf("/posts/%d/comments", postID), gateway.Options{}, &response); err != nil {
		return nil, err
	}
	return response.Comments, nil
}

// Comment adds a comment to a post.
func (client *Client) Comment(ctx context.Context, postID int64, content string) error {
	return client.api.Request(ctx, fmt.Sprintf("/posts/%d/comments", postID), gateway.Options{
		Method: http.MethodPost,
		Body: struct {
			PostID  int64  `json:"postId"`
			Content string `json:"content"`
		}{postID, content},
	}, nil)
}

// Report flags a post for the moderators. The reason is optional.
func (client *Client) Report(ctx context.Context, postID int64, reason string) error {
	return client.api.Request(ctx, fmt.Sprintf("/posts/%d/report", postID), gateway.Options{
		Method: http.MethodPost,
		Body: struct {
			Reason string `json:"reason,omitempty"`
		}{reason},
	}, nil)
}

// Search runs the combined users-and-posts search.
func (client *Client) Search(ctx context.Context, q string) ([]UserRef, []Post, error) {
	var response struct {
		Users []UserRef `json:"users"`
		Posts []Post    `json:"posts"`
	}
	path := "/search?q=" + url.QueryEscape(q) + "&type=posts"
	if err := client.api.Request(ctx, path, gateway.Options{}, &response); err != nil {
		return nil, nil, err
	}
	return response.Users, response.Posts, nil
}
