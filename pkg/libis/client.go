package libis

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"

	"github.com/pkg/errors"
)

type (
	// A Client defines all interactions that can be performed on an impulsestop server.
	Client interface {
		// Register creates an account and authenticates it.
		Register(email, password string) (*Credentials, error)
		// Login connects the Client to the impulsestop server.
		Login(email, password string) (*Credentials, error)
		// LoginAnonymous opens a trial session against the read-only sample scope.
		LoginAnonymous() (*Credentials, error)
		// Logout terminates the current session.
		Logout() error
		// UpdateEmail changes the registered email, a verification mail is sent.
		UpdateEmail(newEmail string) error
		// UpdatePassword changes the password and returns fresh credentials,
		// older tokens are revoked.
		UpdatePassword(current, replacement string) (*Credentials, error)
		// ResetPassword asks the server to send a password-reset mail.
		ResetPassword(email string) error
		// DeleteAccount removes the account with its sessions and items.
		DeleteAccount() error
		// RefreshSession exchanges the session pair for a fresh one.
		RefreshSession(access, refresh string) (*Session, error)

		// WriteTombstone writes the cancellation audit record.
		WriteTombstone() error
		// Tombstone reads the cancellation audit record back.
		Tombstone() (*Tombstone, error)

		// Priorities returns the enabled entries of the priority catalog.
		Priorities() ([]Priority, error)
		// Items returns the items of the current scope in the given order.
		Items(sort SortSpec) ([]Item, error)
		// Item returns one item of the current scope.
		Item(id string) (*Item, error)
		// CreateItem inserts a new item, the server assigns the id.
		CreateItem(bodyText string, priority int) (*Item, error)
		// OverwriteItem replaces the item contents wholesale.
		OverwriteItem(id, bodyText string, priority int) (*Item, error)
		// DeleteItem removes one item.
		DeleteItem(id string) error

		// Subscribe opens a live query delivering full-result-set snapshots
		// until the returned teardown function is called.
		Subscribe(sort SortSpec, fn SnapshotFunc) (Unsubscribe, error)

		// BearerToken returns the authentication used for requests sent to the server.
		BearerToken() string
		// SetBearerToken sets the authentication used for requests sent to the server.
		SetBearerToken(token string)
		// Session returns the refreshable session pair.
		Session() Session
		// SetSession sets the refreshable session pair.
		SetSession(session Session)
	}

	p      map[string]any
	client struct {
		http     *http.Client
		endpoint string
		bearer   string
		session  Session
	}
)

// NewDefaultClient returns a new Client with default HTTP client.
func NewDefaultClient(endpoint string) (Client, error) {
	return NewClient(http.DefaultClient, endpoint)
}

// NewClient returns a new Client.
func NewClient(c *http.Client, endpoint string) (Client, error) {
	_, err := url.Parse(endpoint)
	return &client{endpoint: endpoint, http: c}, errors.Wrap(err, "could not parse endpoint")
}

func (c *client) Register(email, password string) (*Credentials, error) {
	return c.authenticate("/auth", p{"email": email, "password": password})
}

func (c *client) Login(email, password string) (*Credentials, error) {
	return c.authenticate("/auth/sign_in", p{"email": email, "password": password})
}

func (c *client) LoginAnonymous() (*Credentials, error) {
	return c.authenticate("/auth/sign_in/anonymous", p{})
}

func (c *client) authenticate(endpoint string, params p) (*Credentials, error) {
	res, err := c.do(http.MethodPost, endpoint, params)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	var credentials Credentials
	dec := json.NewDecoder(res.Body)
	if err := dec.Decode(&credentials); err != nil {
		return nil, errors.Wrap(err, "could not parse response")
	}

	c.bearer = credentials.Token
	c.session = credentials.Session
	return &credentials, nil
}

func (c *client) Logout() error {
	if !c.session.Defined() {
		return errors.New("no session defined")
	}

	res, err := c.do(http.MethodPost, "/auth/sign_out", p{"access_token": c.session.AccessToken})
	if err != nil {
		return err
	}
	return res.Body.Close()
}

func (c *client) UpdateEmail(newEmail string) error {
	res, err := c.do(http.MethodPost, "/auth/update", p{"new_email": newEmail})
	if err != nil {
		return err
	}
	return res.Body.Close()
}

func (c *client) UpdatePassword(current, replacement string) (*Credentials, error) {
	return c.authenticate("/auth/change_pw", p{
		"current_password": current,
		"new_password":     replacement,
	})
}

func (c *client) ResetPassword(email string) error {
	res, err := c.do(http.MethodPost, "/auth/reset_pw", p{"email": email})
	if err != nil {
		return err
	}
	return res.Body.Close()
}

func (c *client) DeleteAccount() error {
	res, err := c.do(http.MethodDelete, "/auth", nil)
	if err != nil {
		return err
	}
	return res.Body.Close()
}

func (c *client) RefreshSession(access, refresh string) (*Session, error) {
	res, err := c.do(http.MethodPost, "/session/refresh", p{
		"access_token":  access,
		"refresh_token": refresh,
	})
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	var payload struct {
		Token   string  `json:"token"`
		Session Session `json:"session"`
	}
	dec := json.NewDecoder(res.Body)
	if err := dec.Decode(&payload); err != nil {
		return nil, errors.Wrap(err, "could not parse response")
	}

	c.bearer = payload.Token
	c.session = payload.Session
	return &payload.Session, nil
}

func (c *client) WriteTombstone() error {
	res, err := c.do(http.MethodPut, "/tombstone", p{})
	if err != nil {
		return err
	}
	return res.Body.Close()
}

func (c *client) Tombstone() (*Tombstone, error) {
	res, err := c.do(http.MethodGet, "/tombstone", nil)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	var payload struct {
		Tombstone Tombstone `json:"tombstone"`
	}
	dec := json.NewDecoder(res.Body)
	if err := dec.Decode(&payload); err != nil {
		return nil, errors.Wrap(err, "could not parse response")
	}
	return &payload.Tombstone, nil
}

func (c *client) Priorities() ([]Priority, error) {
	res, err := c.do(http.MethodGet, "/priorities", nil)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	var payload struct {
		Priorities []Priority `json:"priorities"`
	}
	dec := json.NewDecoder(res.Body)
	if err := dec.Decode(&payload); err != nil {
		return nil, errors.Wrap(err, "could not parse response")
	}
	return payload.Priorities, nil
}

func (c *client) Items(sort SortSpec) ([]Item, error) {
	res, err := c.do(http.MethodGet, "/items?sort="+url.QueryEscape(sort.Key()), nil)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	var payload struct {
		Items []Item `json:"items"`
	}
	dec := json.NewDecoder(res.Body)
	if err := dec.Decode(&payload); err != nil {
		return nil, errors.Wrap(err, "could not parse response")
	}
	return payload.Items, nil
}

func (c *client) Item(id string) (*Item, error) {
	res, err := c.do(http.MethodGet, "/items/"+id, nil)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	return parseItem(res.Body)
}

func (c *client) CreateItem(bodyText string, priority int) (*Item, error) {
	res, err := c.do(http.MethodPost, "/items", p{"body_text": bodyText, "priority": priority})
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	return parseItem(res.Body)
}

func (c *client) OverwriteItem(id, bodyText string, priority int) (*Item, error) {
	res, err := c.do(http.MethodPut, "/items/"+id, p{"body_text": bodyText, "priority": priority})
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	return parseItem(res.Body)
}

func (c *client) DeleteItem(id string) error {
	res, err := c.do(http.MethodDelete, "/items/"+id, nil)
	if err != nil {
		return err
	}
	return res.Body.Close()
}

func (c *client) BearerToken() string {
	return c.bearer
}

func (c *client) SetBearerToken(token string) {
	c.bearer = token
}

func (c *client) Session() Session {
	return c.session
}

func (c *client) SetSession(session Session) {
	c.session = session
}

func (c *client) do(method, endpoint string, params p) (*http.Response, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, errors.Wrap(err, "could not parse endpoint")
	}
	ref, err := url.Parse(endpoint)
	if err != nil {
		return nil, errors.Wrap(err, "could not parse path")
	}
	u.Path = path.Join(u.Path, ref.Path)
	u.RawQuery = ref.RawQuery

	//
	// Build request
	var body io.Reader
	if params != nil {
		payload, err := json.Marshal(params)
		if err != nil {
			return nil, errors.Wrap(err, "could not serialize params")
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, u.String(), body)
	if err != nil {
		return nil, errors.Wrap(err, "could not build request")
	}
	req.Close = true
	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("Accept", "application/json")
	if c.bearer != "" {
		req.Header.Add("Authorization", fmt.Sprintf("Bearer %s", c.bearer))
	}

	//
	// Perform request
	res, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "could not perform request")
	}

	if res.StatusCode >= 400 {
		defer res.Body.Close()
		return nil, parseError(res.Body, res.StatusCode)
	}

	return res, nil
}

func parseItem(r io.Reader) (*Item, error) {
	var payload struct {
		Item Item `json:"item"`
	}
	dec := json.NewDecoder(r)
	if err := dec.Decode(&payload); err != nil {
		return nil, errors.Wrap(err, "could not parse response")
	}
	return &payload.Item, nil
}
