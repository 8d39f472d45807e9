package messenger

import (
	"context"
	"sync"

	"github.com/lalith-99/pocketchat/internal/models"
	"github.com/lalith-99/pocketchat/internal/repository"
)

// Navigator is told when the logged-in user changes so a front end can
// redraw. Refresh receives nil after logout.
type Navigator interface {
	Refresh(current *models.User)
	Landing()
}

// NopNavigator ignores every call.
type NopNavigator struct{}

func (NopNavigator) Refresh(*models.User) {}
func (NopNavigator) Landing()             {}

// Client is a single-user front for Service. It remembers who is logged in
// and keeps that in the session repository so a later process can pick it
// up with Restore.
type Client struct {
	svc     *Service
	session repository.SessionRepository
	nav     Navigator

	mu      sync.RWMutex
	current *models.User
}

func NewClient(svc *Service, session repository.SessionRepository, nav Navigator) *Client {
	if nav == nil {
		nav = NopNavigator{}
	}
	return &Client{svc: svc, session: session, nav: nav}
}

// Restore loads the persisted session, if any, and refreshes the navigator.
func (c *Client) Restore(ctx context.Context) error {
	u, err := c.session.Load(ctx)
	if err != nil {
		return err
	}
	c.setCurrent(u)
	c.nav.Refresh(c.CurrentUser())
	return nil
}

func (c *Client) IsLoggedIn() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current != nil
}

// CurrentUser returns a copy of the logged-in user, or nil.
func (c *Client) CurrentUser() *models.User {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.current == nil {
		return nil
	}
	u := *c.current
	return &u
}

func (c *Client) sess() *Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return NewSession(c.current)
}

func (c *Client) setCurrent(u *models.User) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if u == nil {
		c.current = nil
		return
	}
	pub := u.Public()
	c.current = &pub
}

func (c *Client) establish(ctx context.Context, u *models.User) (*models.User, error) {
	if err := c.session.Save(ctx, u); err != nil {
		return nil, err
	}
	c.setCurrent(u)
	c.nav.Refresh(c.CurrentUser())
	return u, nil
}

func (c *Client) Register(ctx context.Context, username, password string) (*models.User, error) {
	u, err := c.svc.Register(ctx, username, password)
	if err != nil {
		return nil, err
	}
	return c.establish(ctx, u)
}

func (c *Client) Login(ctx context.Context, username, password string) (*models.User, error) {
	u, err := c.svc.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}
	return c.establish(ctx, u)
}

// Logout marks the user offline, forgets the session and sends the
// navigator to the landing view. Logging out while logged out still clears
// the slot and navigates.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.svc.Logout(ctx, c.sess()); err != nil {
		return err
	}
	if err := c.session.Clear(ctx); err != nil {
		return err
	}
	c.setCurrent(nil)
	c.nav.Refresh(nil)
	c.nav.Landing()
	return nil
}

// UpdateProfile also rewrites the persisted session with the new profile.
func (c *Client) UpdateProfile(ctx context.Context, p ProfileUpdate) (*models.User, error) {
	u, err := c.svc.UpdateProfile(ctx, c.sess(), p)
	if err != nil || u == nil {
		return nil, err
	}
	return c.establish(ctx, u)
}

func (c *Client) GetAllUsers(ctx context.Context) ([]models.User, error) {
	return c.svc.GetAllUsers(ctx, c.sess())
}

func (c *Client) SearchUsers(ctx context.Context, query string) ([]models.User, error) {
	return c.svc.SearchUsers(ctx, c.sess(), query)
}

func (c *Client) SendMessage(ctx context.Context, chatID, text, msgType string) (*models.Message, error) {
	return c.svc.SendMessage(ctx, c.sess(), chatID, text, msgType)
}

func (c *Client) GetChatMessages(ctx context.Context, chatID string) ([]models.Message, error) {
	return c.svc.GetChatMessages(ctx, chatID)
}

func (c *Client) CreatePrivateChat(ctx context.Context, otherUserID string) (*models.Chat, error) {
	chat, _, err := c.svc.CreatePrivateChat(ctx, c.sess(), otherUserID)
	return chat, err
}

func (c *Client) CreateGroup(ctx context.Context, name, description string, participants []string) (*models.Chat, error) {
	return c.svc.CreateGroup(ctx, c.sess(), name, description, participants)
}

func (c *Client) GetUserChats(ctx context.Context) ([]models.Chat, error) {
	return c.svc.GetUserChats(ctx, c.sess())
}

func (c *Client) GetChatInfo(ctx context.Context, chatID string) (*models.ChatView, error) {
	return c.svc.GetChatInfo(ctx, c.sess(), chatID)
}

func (c *Client) AddReaction(ctx context.Context, messageID, reaction string) (*models.Message, error) {
	return c.svc.AddReaction(ctx, c.sess(), messageID, reaction)
}

func (c *Client) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return c.svc.GetUserByID(ctx, id)
}
