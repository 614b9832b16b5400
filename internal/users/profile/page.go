// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package profile

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/taibuivan/dizesi/internal/platform/apperr"
	"github.com/taibuivan/dizesi/internal/platform/fetch"
	"github.com/taibuivan/dizesi/internal/platform/toast"
	"github.com/taibuivan/dizesi/internal/platform/validate"
	"github.com/taibuivan/dizesi/internal/social/post"
	"github.com/taibuivan/dizesi/pkg/slice"
)

// ErrNotOwner is returned by owner-only controls on someone else's profile.
var ErrNotOwner = apperr.Forbidden("You can only edit your own profile")

// View is what the page renders: the person and one card per post.
type View struct {
	Person Person
	Cards  []*post.Card
}

// EditState is the owner's edit buffer.
type EditState struct {
	Editing      bool
	Bio          string
	InstagramURL string
	Saving       bool

	// ImageBusy is the slot with an upload or removal in flight, or "".
	ImageBusy ImageKind
}

// Deps groups the collaborators of a [Page].
type Deps struct {
	Cards        post.Deps
	Client       *Client
	AssetBaseURL string
}

// Page is the controller of `/profile/{username}`.
type Page struct {
	username string
	deps     Deps
	notifier toast.Notifier
	view     *fetch.Resource[View]

	mu   sync.Mutex
	edit EditState
}

// NewPage constructs the page of username. Nothing is fetched until [Page.Load].
func NewPage(deps Deps, username string) *Page {
	page := &Page{
		username: username,
		deps:     deps,
		notifier: toast.OrDiscard(deps.Cards.Notifier),
	}
	page.view = fetch.New(page.fetch)
	return page
}

func (page *Page) fetch(ctx context.Context) (View, error) {
	person, posts, err := page.deps.Client.Get(ctx, page.username)
	if err != nil {
		return View{}, err
	}
	cards := slice.Map(posts, func(p post.Post) *post.Card {
		return post.NewCard(page.deps.Cards, p)
	})
	return View{Person: person, Cards: cards}, nil
}

// # Loading

/*
Load fetches the profile and resets the edit buffer from it.

Parameters:
  - ctx: context.Context

Returns:
  - error: Gateway failures; a superseded load returns nil
*/
func (page *Page) Load(ctx context.Context) error {
	view, err := page.view.Load(ctx)
	if errors.Is(err, fetch.ErrSuperseded) {
		return nil
	}
	if err != nil {
		return err
	}

	page.mu.Lock()
	page.edit.Bio = view.Person.Bio
	page.edit.InstagramURL = view.Person.InstagramURL
	page.mu.Unlock()
	return nil
}

// Username returns the username the page was opened for.
func (page *Page) Username() string {
	return page.username
}

// View returns the last loaded profile.
func (page *Page) View() View {
	return page.view.Data()
}

// State exposes loading and error flags.
func (page *Page) State() fetch.State[View] {
	return page.view.State()
}

// OnChange registers fn to run after every change of the loaded view.
func (page *Page) OnChange(fn func(fetch.State[View])) func() {
	return page.view.OnChange(fn)
}

// Close unmounts the page and every card on it.
func (page *Page) Close() {
	page.view.Close()
	post.CloseAll(page.view.Data().Cards)
}

// IsOwn reports whether the signed-in user is looking at their own profile.
func (page *Page) IsOwn() bool {
	user := page.deps.Cards.Session.Current()
	return user != nil && user.Username == page.username
}

// ImageURL resolves a stored image path against the asset host.
func (page *Page) ImageURL(path string) string {
	return post.ImageURL(page.deps.AssetBaseURL, path)
}

// # Editing

// Edit returns a copy of the edit buffer.
func (page *Page) Edit() EditState {
	page.mu.Lock()
	defer page.mu.Unlock()
	return page.edit
}

// BeginEdit enters edit mode on one's own profile.
func (page *Page) BeginEdit() error {
	if !page.IsOwn() {
		return ErrNotOwner
	}
	page.mu.Lock()
	page.edit.Editing = true
	page.mu.Unlock()
	return nil
}

// SetBio updates the bio in the edit buffer.
func (page *Page) SetBio(bio string) {
	page.mu.Lock()
	page.edit.Bio = bio
	page.mu.Unlock()
}

// SetInstagram updates the Instagram link in the edit buffer.
func (page *Page) SetInstagram(link string) {
	page.mu.Lock()
	page.edit.InstagramURL = link
	page.mu.Unlock()
}

// Cancel leaves edit mode and restores the buffer from the loaded profile.
func (page *Page) Cancel() {
	person := page.view.Data().Person

	page.mu.Lock()
	page.edit.Editing = false
	page.edit.Bio = person.Bio
	page.edit.InstagramURL = person.InstagramURL
	page.mu.Unlock()
}

/*
Save sends the edit buffer and reloads the profile.

Description: The edit mode is left only after the server accepts the
change. A failure keeps the buffer so the owner can retry.

Parameters:
  - ctx: context.Context

Returns:
  - error: ErrNotOwner, ErrInFlight, VALIDATION_ERROR, or gateway failures
*/
func (page *Page) Save(ctx context.Context) error {
	if !page.IsOwn() {
		return ErrNotOwner
	}

	// 1. Snapshot the buffer and claim the control
	page.mu.Lock()
	if page.edit.Saving {
		page.mu.Unlock()
		return post.ErrInFlight
	}
	input := UpdateInput{Bio: page.edit.Bio, InstagramURL: page.edit.InstagramURL}

	validator := &validate.Validator{}
	validator.MaxLen(FieldBio, input.Bio, BioMaxLength)
	if err := validator.Err(); err != nil {
		page.mu.Unlock()
		page.notifier.Notify(ctx, toast.Error("Bio too long", "Please keep your bio under 200 characters."))
		return err
	}
	page.edit.Saving = true
	page.mu.Unlock()

	// 2. Send
	err := page.deps.Client.Update(ctx, input)

	page.mu.Lock()
	page.edit.Saving = false
	if err == nil {
		page.edit.Editing = false
	}
	page.mu.Unlock()

	if err != nil {
		page.notifier.Notify(ctx, toast.Error("Error", "Failed to save profile."))
		return err
	}

	// 3. Refetch
	return page.Load(ctx)
}

// # Images

/*
UploadImage replaces the avatar or the cover and applies the stored path.

Parameters:
  - ctx: context.Context
  - kind: ImageKind
  - filename: string
  - content: io.Reader

Returns:
  - error: ErrNotOwner, ErrInFlight, or gateway failures
*/
func (page *Page) UploadImage(ctx context.Context, kind ImageKind, filename string, content io.Reader) error {
	release, err := page.claimImage(kind)
	if err != nil {
		return err
	}
	defer release()

	path, err := page.deps.Client.UploadImage(ctx, kind, filename, content)
	if err != nil {
		page.notifier.Notify(ctx, toast.Error("Error", "Failed to upload image."))
		return err
	}

	page.view.Mutate(func(view View) View {
		view.Person = view.Person.withImage(kind, path)
		return view
	})
	return nil
}

// RemoveImage clears the avatar or the cover.
func (page *Page) RemoveImage(ctx context.Context, kind ImageKind) error {
	release, err := page.claimImage(kind)
	if err != nil {
		return err
	}
	defer release()

	if err := page.deps.Client.RemoveImage(ctx, kind); err != nil {
		page.notifier.Notify(ctx, toast.Error("Error", "Failed to remove image."))
		return err
	}

	page.view.Mutate(func(view View) View {
		view.Person = view.Person.withImage(kind, "")
		return view
	})
	return nil
}

// claimImage marks kind busy. Only one image call runs at a time.
func (page *Page) claimImage(kind ImageKind) (func(), error) {
	if !page.IsOwn() {
		return nil, ErrNotOwner
	}

	page.mu.Lock()
	defer page.mu.Unlock()

	if page.edit.ImageBusy != "" {
		return nil, post.ErrInFlight
	}
	page.edit.ImageBusy = kind

	return func() {
		page.mu.Lock()
		page.edit.ImageBusy = ""
		page.mu.Unlock()
	}, nil
}

// # Posts

/*
DeletePost removes one of the owner's posts and drops its card.

Parameters:
  - ctx: context.Context
  - postID: int64

Returns:
  - error: ErrNotOwner or gateway failures
*/
func (page *Page) DeletePost(ctx context.Context, postID int64) error {
	if !page.IsOwn() {
		return ErrNotOwner
	}

	if err := page.deps.Cards.Client.Delete(ctx, postID); err != nil {
		page.notifier.Notify(ctx, toast.Error("Error", "Failed to delete post."))
		return err
	}

	if card, ok := slice.Find(page.view.Data().Cards, func(card *post.Card) bool { return card.ID() == postID }); ok {
		card.Close()
	}
	page.view.Mutate(func(view View) View {
		view.Cards = slice.Filter(view.Cards, func(card *post.Card) bool {
			return card.ID() != postID
		})
		return view
	})
	return nil
}
