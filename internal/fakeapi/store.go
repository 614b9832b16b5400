// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package fakeapi

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/cases"

	"github.com/taibuivan/dizesi/internal/admin"
	"github.com/taibuivan/dizesi/internal/platform/apperr"
	"github.com/taibuivan/dizesi/internal/platform/sec"
	"github.com/taibuivan/dizesi/internal/platform/validate"
	"github.com/taibuivan/dizesi/internal/social/notification"
	"github.com/taibuivan/dizesi/internal/social/post"
	"github.com/taibuivan/dizesi/internal/users/auth"
	"github.com/taibuivan/dizesi/internal/users/profile"
)

// Post moderation states.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
)

// # Errors

var (
	ErrInvalidCredentials = apperr.Unauthorized("Invalid username or password")
	ErrUnknownAccount     = apperr.Unauthorized("Account no longer exists")
	ErrUsernameTaken      = apperr.Conflict("Username already taken")
	ErrEmailTaken         = apperr.Conflict("Email already registered")
	ErrAlreadyReported    = apperr.Conflict("You have already reported this post")
	ErrSelfFollow         = apperr.ValidationError("You cannot follow yourself")
	ErrNotAuthor          = apperr.Forbidden("You can only delete your own posts")
	ErrNotPending         = apperr.Conflict("Post is not awaiting moderation")
)

// # Records

type account struct {
	id             int64
	username       string
	fullName       string
	email          string
	passwordHash   string
	role           sec.UserRole
	gender         string
	dateOfBirth    string
	bio            string
	instagramURL   string
	profilePicture string
	coverImage     string
	createdAt      time.Time
}

type article struct {
	id        int64
	authorID  int64
	title     string
	content   string
	image     string
	status    string
	createdAt time.Time
}

type remark struct {
	id        int64
	postID    int64
	authorID  int64
	content   string
	createdAt time.Time
}

type flag struct {
	id         int64
	postID     int64
	reporterID int64
	reason     string
	createdAt  time.Time
}

type event struct {
	id          int64
	recipientID int64
	actorID     int64
	postID      int64
	kind        notification.Kind
	read        bool
	createdAt   time.Time
}

// # Store

// Store is the in-memory database of the fake API. It is safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	clock func() time.Time

	nextID     int64
	accounts   map[int64]*account
	byUsername map[string]int64
	posts      map[int64]*article
	likes      map[int64]map[int64]bool
	follows    map[int64]map[int64]bool
	comments   []remark
	reports    []flag
	events     []event
	uploads    map[string][]byte
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		clock:      time.Now,
		accounts:   make(map[int64]*account),
		byUsername: make(map[string]int64),
		posts:      make(map[int64]*article),
		likes:      make(map[int64]map[int64]bool),
		follows:    make(map[int64]map[int64]bool),
		uploads:    make(map[string][]byte),
	}
}

func (store *Store) id() int64 {
	store.nextID++
	return store.nextID
}

// # Accounts

// Registration is the input of [Store.Register].
type Registration struct {
	FullName    string
	Username    string
	Email       string
	Password    string
	Gender      string
	DateOfBirth string
	Role        sec.UserRole
}

/*
Register creates an account with a bcrypt-hashed password.

Returns:
  - auth.User: The public record of the new account
  - error: ErrUsernameTaken, ErrEmailTaken, an overlong password, or hashing failures
*/
func (store *Store) Register(input Registration) (auth.User, error) {
	hash, err := sec.HashPassword(input.Password)
	if errors.Is(err, sec.ErrPasswordTooLong) {
		return auth.User{}, validate.Field("password", fmt.Sprintf("Maximum %d bytes", sec.MaxPasswordBytes))
	}
	if err != nil {
		return auth.User{}, apperr.Internal(err)
	}

	store.mu.Lock()
	defer store.mu.Unlock()

	if _, taken := store.byUsername[strings.ToLower(input.Username)]; taken {
		return auth.User{}, ErrUsernameTaken
	}
	for _, existing := range store.accounts {
		if strings.EqualFold(existing.email, input.Email) {
			return auth.User{}, ErrEmailTaken
		}
	}

	role := input.Role
	if role == "" {
		role = sec.RoleUser
	}

	record := &account{
		id:           store.id(),
		username:     input.Username,
		fullName:     input.FullName,
		email:        input.Email,
		passwordHash: hash,
		role:         role,
		gender:       input.Gender,
		dateOfBirth:  input.DateOfBirth,
		createdAt:    store.clock(),
	}
	store.accounts[record.id] = record
	store.byUsername[strings.ToLower(record.username)] = record.id

	return record.user(), nil
}

// Authenticate checks a username and password pair.
func (store *Store) Authenticate(username, password string) (auth.User, error) {
	store.mu.RLock()
	record := store.findByUsername(username)
	store.mu.RUnlock()

	if record == nil || !sec.PasswordMatches(record.passwordHash, password) {
		return auth.User{}, ErrInvalidCredentials
	}
	return record.user(), nil
}

// UsernameAvailable reports whether no account uses username (case-insensitive).
func (store *Store) UsernameAvailable(username string) bool {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return store.findByUsername(username) == nil
}

// User returns the public record of an account.
func (store *Store) User(userID int64) (auth.User, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	record, ok := store.accounts[userID]
	if !ok {
		return auth.User{}, ErrUnknownAccount
	}
	return record.user(), nil
}

// Users lists every account, oldest first.
func (store *Store) Users() []auth.User {
	store.mu.RLock()
	defer store.mu.RUnlock()

	users := make([]auth.User, 0, len(store.accounts))
	for _, record := range store.sortedAccounts() {
		users = append(users, record.user())
	}
	return users
}

func (store *Store) findByUsername(username string) *account {
	id, ok := store.byUsername[strings.ToLower(username)]
	if !ok {
		return nil
	}
	return store.accounts[id]
}

func (store *Store) sortedAccounts() []*account {
	records := make([]*account, 0, len(store.accounts))
	for _, record := range store.accounts {
		records = append(records, record)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].id < records[j].id })
	return records
}

func (store *Store) requireAccount(userID int64) (*account, error) {
	record, ok := store.accounts[userID]
	if !ok {
		return nil, ErrUnknownAccount
	}
	return record, nil
}

// # Posts

// Feed lists approved posts, newest first. The following feed keeps only
// authors the viewer follows.
func (store *Store) Feed(viewerID int64, following bool) []post.Post {
	store.mu.RLock()
	defer store.mu.RUnlock()

	return store.listPosts(viewerID, func(p *article) bool {
		if p.status != StatusApproved {
			return false
		}
		return !following || store.follows[viewerID][p.authorID]
	})
}

// CreatePost stores a new post awaiting moderation.
func (store *Store) CreatePost(authorID int64, title, content, image string) (post.Post, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	if _, err := store.requireAccount(authorID); err != nil {
		return post.Post{}, err
	}

	record := &article{
		id:        store.id(),
		authorID:  authorID,
		title:     title,
		content:   content,
		image:     image,
		status:    StatusPending,
		createdAt: store.clock(),
	}
	store.posts[record.id] = record
	return store.view(record, authorID), nil
}

// DeletePost removes a post written by actorID.
func (store *Store) DeletePost(actorID, postID int64) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	record, ok := store.posts[postID]
	if !ok {
		return apperr.NotFound("Post")
	}
	if record.authorID != actorID {
		return ErrNotAuthor
	}
	store.removePost(postID)
	return nil
}

/*
ToggleLike flips the caller's like and returns the authoritative state.

Returns:
  - int: The like count after the toggle
  - bool: Whether the caller now likes the post
  - error: NOT_FOUND for a missing or unpublished post
*/
func (store *Store) ToggleLike(userID, postID int64) (int, bool, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	record, err := store.requirePublished(postID)
	if err != nil {
		return 0, false, err
	}

	likers := store.likes[postID]
	if likers == nil {
		likers = make(map[int64]bool)
		store.likes[postID] = likers
	}

	liked := !likers[userID]
	if liked {
		likers[userID] = true
		store.notify(record.authorID, userID, postID, notification.KindLike)
	} else {
		delete(likers, userID)
	}
	return len(likers), liked, nil
}

// ToggleFollow flips whether followerID follows followeeID.
func (store *Store) ToggleFollow(followerID, followeeID int64) (bool, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	if followerID == followeeID {
		return false, ErrSelfFollow
	}
	if _, err := store.requireAccount(followeeID); err != nil {
		return false, apperr.NotFound("User")
	}

	followees := store.follows[followerID]
	if followees == nil {
		followees = make(map[int64]bool)
		store.follows[followerID] = followees
	}

	following := !followees[followeeID]
	if following {
		followees[followeeID] = true
		store.notify(followeeID, followerID, 0, notification.KindFollow)
	} else {
		delete(followees, followeeID)
	}
	return following, nil
}

// Comments lists a post's comments, oldest first.
func (store *Store) Comments(postID int64) ([]post.Comment, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	if _, err := store.requirePublished(postID); err != nil {
		return nil, err
	}

	comments := make([]post.Comment, 0)
	for _, c := range store.comments {
		if c.postID == postID {
			comments = append(comments, post.Comment{
				ID:        c.id,
				User:      store.ref(c.authorID, 0),
				Content:   c.content,
				CreatedAt: c.createdAt.Format(time.RFC3339),
			})
		}
	}
	return comments, nil
}

// AddComment stores a comment and notifies the post's author.
func (store *Store) AddComment(authorID, postID int64, content string) (post.Comment, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	record, err := store.requirePublished(postID)
	if err != nil {
		return post.Comment{}, err
	}

	c := remark{id: store.id(), postID: postID, authorID: authorID, content: content, createdAt: store.clock()}
	store.comments = append(store.comments, c)
	store.notify(record.authorID, authorID, postID, notification.KindComment)

	return post.Comment{
		ID:        c.id,
		User:      store.ref(authorID, 0),
		Content:   content,
		CreatedAt: c.createdAt.Format(time.RFC3339),
	}, nil
}

// Report files a report. A user can report a post once.
func (store *Store) Report(reporterID, postID int64, reason string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	if _, err := store.requirePublished(postID); err != nil {
		return err
	}
	for _, r := range store.reports {
		if r.postID == postID && r.reporterID == reporterID {
			return ErrAlreadyReported
		}
	}

	store.reports = append(store.reports, flag{
		id:         store.id(),
		postID:     postID,
		reporterID: reporterID,
		reason:     reason,
		createdAt:  store.clock(),
	})
	return nil
}

func (store *Store) requirePublished(postID int64) (*article, error) {
	record, ok := store.posts[postID]
	if !ok || record.status != StatusApproved {
		return nil, apperr.NotFound("Post")
	}
	return record, nil
}

// removePost drops a post with its likes, comments and reports.
func (store *Store) removePost(postID int64) {
	delete(store.posts, postID)
	delete(store.likes, postID)

	comments := store.comments[:0]
	for _, c := range store.comments {
		if c.postID != postID {
			comments = append(comments, c)
		}
	}
	store.comments = comments

	reports := store.reports[:0]
	for _, r := range store.reports {
		if r.postID != postID {
			reports = append(reports, r)
		}
	}
	store.reports = reports
}

func (store *Store) listPosts(viewerID int64, keep func(*article) bool) []post.Post {
	records := make([]*article, 0, len(store.posts))
	for _, record := range store.posts {
		if keep(record) {
			records = append(records, record)
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].id > records[j].id })

	posts := make([]post.Post, 0, len(records))
	for _, record := range records {
		posts = append(posts, store.view(record, viewerID))
	}
	return posts
}

// view renders a post as seen by viewerID.
func (store *Store) view(record *article, viewerID int64) post.Post {
	comments := 0
	for _, c := range store.comments {
		if c.postID == record.id {
			comments++
		}
	}

	return post.Post{
		ID:            record.id,
		Title:         record.title,
		Content:       record.content,
		ImageURL:      record.image,
		User:          store.ref(record.authorID, viewerID),
		LikesCount:    len(store.likes[record.id]),
		CommentsCount: comments,
		IsLiked:       store.likes[record.id][viewerID],
		Status:        record.status,
		CreatedAt:     record.createdAt.Format(time.RFC3339),
	}
}

func (store *Store) ref(userID, viewerID int64) post.UserRef {
	record, ok := store.accounts[userID]
	if !ok {
		return post.UserRef{ID: userID}
	}
	return post.UserRef{
		ID:             record.id,
		Username:       record.username,
		FullName:       record.fullName,
		ProfilePicture: record.profilePicture,
		IsFollowing:    store.follows[viewerID][record.id],
	}
}

// # Profiles

/*
Profile returns a user's profile and published posts as seen by viewerID.

Returns:
  - profile.Person
  - []post.Post
  - error: NOT_FOUND for an unknown username
*/
func (store *Store) Profile(viewerID int64, username string) (profile.Person, []post.Post, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	record := store.findByUsername(username)
	if record == nil {
		return profile.Person{}, nil, apperr.NotFound("User")
	}

	posts := store.listPosts(viewerID, func(p *article) bool {
		return p.authorID == record.id && p.status == StatusApproved
	})
	return store.person(record, viewerID), posts, nil
}

// ProfileUpdate holds the fields a PATCH may change. Nil leaves a field as is.
type ProfileUpdate struct {
	Bio            *string
	InstagramURL   *string
	ProfilePicture *string
	CoverImage     *string
}

// UpdateProfile applies a partial change to the caller's profile.
func (store *Store) UpdateProfile(userID int64, update ProfileUpdate) (profile.Person, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	record, err := store.requireAccount(userID)
	if err != nil {
		return profile.Person{}, err
	}

	if update.Bio != nil {
		record.bio = *update.Bio
	}
	if update.InstagramURL != nil {
		record.instagramURL = *update.InstagramURL
	}
	if update.ProfilePicture != nil {
		record.profilePicture = *update.ProfilePicture
	}
	if update.CoverImage != nil {
		record.coverImage = *update.CoverImage
	}

	return store.person(record, userID), nil
}

func (store *Store) person(record *account, viewerID int64) profile.Person {
	followers := 0
	for _, followees := range store.follows {
		if followees[record.id] {
			followers++
		}
	}

	return profile.Person{
		ID:             record.id,
		Username:       record.username,
		FullName:       record.fullName,
		ProfilePicture: record.profilePicture,
		CoverImage:     record.coverImage,
		Bio:            record.bio,
		InstagramURL:   record.instagramURL,
		DateOfBirth:    record.dateOfBirth,
		FollowersCount: followers,
		FollowingCount: len(store.follows[record.id]),
		IsFollowing:    store.follows[viewerID][record.id],
	}
}

// # Notifications

// notify records an event for recipientID. Self-inflicted events are skipped.
func (store *Store) notify(recipientID, actorID, postID int64, kind notification.Kind) {
	if recipientID == actorID {
		return
	}
	store.events = append(store.events, event{
		id:          store.id(),
		recipientID: recipientID,
		actorID:     actorID,
		postID:      postID,
		kind:        kind,
		createdAt:   store.clock(),
	})
}

// Notifications lists a user's notifications, newest first. Listing does not
// change their read state: the layout badge polls this same endpoint.
func (store *Store) Notifications(userID int64) []notification.Notification {
	store.mu.RLock()
	defer store.mu.RUnlock()

	items := make([]notification.Notification, 0)
	for i := len(store.events) - 1; i >= 0; i-- {
		e := store.events[i]
		if e.recipientID != userID {
			continue
		}

		var actor *notification.Actor
		if record, ok := store.accounts[e.actorID]; ok {
			actor = &notification.Actor{
				ID:             record.id,
				Username:       record.username,
				FullName:       record.fullName,
				ProfilePicture: record.profilePicture,
			}
		}

		items = append(items, notification.Notification{
			ID:        e.id,
			Type:      e.kind,
			Actor:     actor,
			PostID:    e.postID,
			IsRead:    e.read,
			CreatedAt: e.createdAt,
		})
	}
	return items
}

// MarkNotificationsRead marks every notification of userID read and returns
// how many changed.
func (store *Store) MarkNotificationsRead(userID int64) int {
	store.mu.Lock()
	defer store.mu.Unlock()

	changed := 0
	for i := range store.events {
		if store.events[i].recipientID == userID && !store.events[i].read {
			store.events[i].read = true
			changed++
		}
	}
	return changed
}

// # Search

// Search matches users by username or full name and approved posts by title
// or content. Matching is case-insensitive under Unicode case folding.
func (store *Store) Search(viewerID int64, query string) ([]post.UserRef, []post.Post) {
	folder := cases.Fold()
	needle := folder.String(strings.TrimSpace(query))

	store.mu.RLock()
	defer store.mu.RUnlock()

	users := make([]post.UserRef, 0)
	posts := make([]post.Post, 0)
	if needle == "" {
		return users, posts
	}

	matches := func(values ...string) bool {
		for _, value := range values {
			if strings.Contains(folder.String(value), needle) {
				return true
			}
		}
		return false
	}

	for _, record := range store.sortedAccounts() {
		if matches(record.username, record.fullName) {
			users = append(users, store.ref(record.id, viewerID))
		}
	}
	posts = store.listPosts(viewerID, func(p *article) bool {
		return p.status == StatusApproved && matches(p.title, p.content)
	})
	return users, posts
}

// # Moderation

// Pending lists the posts awaiting moderation, oldest first.
func (store *Store) Pending() []admin.PendingPost {
	store.mu.RLock()
	defer store.mu.RUnlock()

	pending := make([]admin.PendingPost, 0)
	for _, p := range store.listPosts(0, func(p *article) bool { return p.status == StatusPending }) {
		author := p.User
		pending = append(pending, admin.PendingPost{
			ID:        p.ID,
			Title:     p.Title,
			Content:   p.Content,
			Image:     p.ImageURL,
			UserID:    author.ID,
			CreatedAt: p.CreatedAt,
			User:      &author,
		})
	}
	sort.Slice(pending, func(i, j int) bool { return pending[i].ID < pending[j].ID })
	return pending
}

// Reports lists every open report with its post and reporter, oldest first.
func (store *Store) Reports() []admin.Report {
	store.mu.RLock()
	defer store.mu.RUnlock()

	reports := make([]admin.Report, 0, len(store.reports))
	for _, r := range store.reports {
		report := admin.Report{
			ID:        r.id,
			PostID:    r.postID,
			UserID:    r.reporterID,
			Reason:    r.reason,
			CreatedAt: r.createdAt.Format(time.RFC3339),
		}
		if p, ok := store.posts[r.postID]; ok {
			report.Post = &admin.ReportedPost{ID: p.id, Title: p.title, Content: p.content, ImageURL: p.image, Status: p.status}
		}
		if reporter, ok := store.accounts[r.reporterID]; ok {
			report.User = &admin.Reporter{ID: reporter.id, Username: reporter.username, Email: reporter.email, FullName: reporter.fullName}
		}
		reports = append(reports, report)
	}
	return reports
}

// Approve publishes a pending post.
func (store *Store) Approve(postID int64) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	record, err := store.requirePending(postID)
	if err != nil {
		return err
	}
	record.status = StatusApproved
	return nil
}

// Reject deletes a pending post.
func (store *Store) Reject(postID int64) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	if _, err := store.requirePending(postID); err != nil {
		return err
	}
	store.removePost(postID)
	return nil
}

// ForceDelete removes any post regardless of author or state.
func (store *Store) ForceDelete(postID int64) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	if _, ok := store.posts[postID]; !ok {
		return apperr.NotFound("Post")
	}
	store.removePost(postID)
	return nil
}

func (store *Store) requirePending(postID int64) (*article, error) {
	record, ok := store.posts[postID]
	if !ok {
		return nil, apperr.NotFound("Post")
	}
	if record.status != StatusPending {
		return nil, ErrNotPending
	}
	return record, nil
}

// # Diagnostics

// Stats counts the stored records by kind.
type Stats struct {
	Users   int `json:"users"`
	Posts   int `json:"posts"`
	Pending int `json:"pending"`
	Reports int `json:"reports"`
	Uploads int `json:"uploads"`
}

// Stats returns the current record counts.
func (store *Store) Stats() Stats {
	store.mu.RLock()
	defer store.mu.RUnlock()

	stats := Stats{
		Users:   len(store.accounts),
		Posts:   len(store.posts),
		Reports: len(store.reports),
		Uploads: len(store.uploads),
	}
	for _, record := range store.posts {
		if record.status == StatusPending {
			stats.Pending++
		}
	}
	return stats
}

// # Uploads

// SaveUpload keeps an uploaded file in memory and returns its public path.
func (store *Store) SaveUpload(name string, data []byte) string {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.uploads[name] = data
	return "/uploads/" + name
}

// Upload returns a stored file.
func (store *Store) Upload(name string) ([]byte, bool) {
	store.mu.RLock()
	defer store.mu.RUnlock()
	data, ok := store.uploads[name]
	return data, ok
}

// # Helpers

func (record *account) user() auth.User {
	return auth.User{
		ID:             record.id,
		Username:       record.username,
		FullName:       record.fullName,
		Email:          record.email,
		Role:           string(record.role),
		IsAdmin:        record.role.IsAdmin(),
		ProfilePicture: record.profilePicture,
		Bio:            record.bio,
	}
}

