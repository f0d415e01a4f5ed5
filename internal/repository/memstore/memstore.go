// Package memstore keeps every repository contract in process memory. It backs
// the "memory" database driver for local development and doubles as the test
// store for services and handlers.
//
// Transactions are serialized against each other and keep an undo log of the
// rows they touch; a failed transaction rolls back only those rows. Writes
// outside a transaction are never undone. Uncommitted writes are visible to
// other readers.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"linkdeck/api/internal/models"
	"linkdeck/api/internal/repository"
)

type record[T any] struct {
	seq   int64
	value T
}

type state struct {
	seq         int64
	users       map[string]record[models.User]
	sessions    map[string]record[models.Session]
	workspaces  map[string]record[models.Workspace]
	members     map[string]record[models.WorkspaceMember]
	invitations map[string]record[models.Invitation]
	categories  map[string]record[models.Category]
	urls        map[string]record[models.URL]
}

func newState() *state {
	return &state{
		users:       make(map[string]record[models.User]),
		sessions:    make(map[string]record[models.Session]),
		workspaces:  make(map[string]record[models.Workspace]),
		members:     make(map[string]record[models.WorkspaceMember]),
		invitations: make(map[string]record[models.Invitation]),
		categories:  make(map[string]record[models.Category]),
		urls:        make(map[string]record[models.URL]),
	}
}

func (s *state) next() int64 {
	s.seq++
	return s.seq
}

// txLog holds the inverse of every row write made inside one transaction.
// A nil log means the write is not transactional.
type txLog struct {
	undo []func()
}

func (l *txLog) rollback() {
	for i := len(l.undo) - 1; i >= 0; i-- {
		l.undo[i]()
	}
	l.undo = nil
}

func remember[T any](tx *txLog, rows map[string]record[T], id string) {
	if tx == nil {
		return
	}
	prev, existed := rows[id]
	tx.undo = append(tx.undo, func() {
		if existed {
			rows[id] = prev
		} else {
			delete(rows, id)
		}
	})
}

func put[T any](tx *txLog, rows map[string]record[T], id string, r record[T]) {
	remember(tx, rows, id)
	rows[id] = r
}

func drop[T any](tx *txLog, rows map[string]record[T], id string) {
	remember(tx, rows, id)
	delete(rows, id)
}

// view binds the entity stores to an optional transaction log.
type view struct {
	s  *Store
	tx *txLog
}

func (v view) Users() repository.UserStore             { return userStore{v} }
func (v view) Sessions() repository.SessionStore       { return sessionStore{v} }
func (v view) Workspaces() repository.WorkspaceStore   { return workspaceStore{v} }
func (v view) Members() repository.MemberStore         { return memberStore{v} }
func (v view) Invitations() repository.InvitationStore { return invitationStore{v} }
func (v view) Categories() repository.CategoryStore    { return categoryStore{v} }
func (v view) URLs() repository.URLStore               { return urlStore{v} }

type Store struct {
	view
	mu   sync.Mutex
	txMu sync.Mutex
	data *state
	now  func() time.Time
}

func New() *Store {
	s := &Store{data: newState(), now: time.Now}
	s.view = view{s: s}
	return s
}

// WithClock overrides the timestamp source used for created/updated columns.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) WithTx(_ context.Context, fn func(stores repository.Stores) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	tx := &txLog{}
	if err := fn(view{s: s, tx: tx}); err != nil {
		s.mu.Lock()
		tx.rollback()
		s.mu.Unlock()
		return err
	}
	return nil
}

// Counts reports row counts per table, for assertions in tests.
type Counts struct {
	Users, Sessions, Workspaces, Members, Invitations, Categories, URLs int
}

func (s *Store) Counts() Counts {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Counts{
		Users:       len(s.data.users),
		Sessions:    len(s.data.sessions),
		Workspaces:  len(s.data.workspaces),
		Members:     len(s.data.members),
		Invitations: len(s.data.invitations),
		Categories:  len(s.data.categories),
		URLs:        len(s.data.urls),
	}
}

func sortedValues[T any](in []record[T]) []T {
	sort.Slice(in, func(i, j int) bool { return in[i].seq < in[j].seq })
	out := make([]T, len(in))
	for i, r := range in {
		out[i] = r.value
	}
	return out
}

// --- users ------------------------------------------------------------------

type userStore struct{ view }

func (u userStore) Create(_ context.Context, user models.User) error {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()

	for _, r := range u.s.data.users {
		if r.value.Email == user.Email {
			return repository.ErrConflict
		}
	}
	now := u.s.now()
	user.CreatedAt, user.UpdatedAt = now, now
	put(u.tx, u.s.data.users, user.ID, record[models.User]{seq: u.s.data.next(), value: user})
	return nil
}

func (u userStore) GetByID(_ context.Context, id string) (models.User, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()

	r, ok := u.s.data.users[id]
	if !ok {
		return models.User{}, repository.ErrNotFound
	}
	return r.value, nil
}

func (u userStore) FindByEmail(_ context.Context, email string) (models.User, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()

	for _, r := range u.s.data.users {
		if r.value.Email == email {
			return r.value, nil
		}
	}
	return models.User{}, repository.ErrNotFound
}

func (u userStore) SetVerificationCode(_ context.Context, userID string, code string, expiresAt time.Time) error {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()

	r, ok := u.s.data.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	r.value.VerificationCode = &code
	r.value.CodeExpires = &expiresAt
	r.value.UpdatedAt = u.s.now()
	put(u.tx, u.s.data.users, userID, r)
	return nil
}

func (u userStore) MarkVerified(_ context.Context, userID string, code string, verifiedAt time.Time) error {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()

	r, ok := u.s.data.users[userID]
	if !ok || r.value.VerificationCode == nil || *r.value.VerificationCode != code {
		return repository.ErrNotFound
	}
	r.value.EmailVerified = &verifiedAt
	r.value.VerificationCode = nil
	r.value.CodeExpires = nil
	r.value.UpdatedAt = u.s.now()
	put(u.tx, u.s.data.users, userID, r)
	return nil
}

// --- sessions ---------------------------------------------------------------

type sessionStore struct{ view }

func (ss sessionStore) Create(_ context.Context, session models.Session) error {
	ss.s.mu.Lock()
	defer ss.s.mu.Unlock()

	for _, r := range ss.s.data.sessions {
		if r.value.TokenHash == session.TokenHash {
			return repository.ErrConflict
		}
	}
	session.CreatedAt = ss.s.now()
	put(ss.tx, ss.s.data.sessions, session.ID, record[models.Session]{seq: ss.s.data.next(), value: session})
	return nil
}

func (ss sessionStore) FindByTokenHash(_ context.Context, tokenHash string) (models.SessionWithUser, error) {
	ss.s.mu.Lock()
	defer ss.s.mu.Unlock()

	for _, r := range ss.s.data.sessions {
		if r.value.TokenHash != tokenHash {
			continue
		}
		user, ok := ss.s.data.users[r.value.UserID]
		if !ok {
			return models.SessionWithUser{}, repository.ErrNotFound
		}
		return models.SessionWithUser{Session: r.value, User: user.value}, nil
	}
	return models.SessionWithUser{}, repository.ErrNotFound
}

func (ss sessionStore) DeleteByTokenHash(_ context.Context, tokenHash string) error {
	ss.s.mu.Lock()
	defer ss.s.mu.Unlock()

	for id, r := range ss.s.data.sessions {
		if r.value.TokenHash == tokenHash {
			drop(ss.tx, ss.s.data.sessions, id)
		}
	}
	return nil
}

func (ss sessionStore) DeleteExpired(_ context.Context, before time.Time) (int64, error) {
	ss.s.mu.Lock()
	defer ss.s.mu.Unlock()

	var n int64
	for id, r := range ss.s.data.sessions {
		if r.value.ExpiresAt.Before(before) {
			drop(ss.tx, ss.s.data.sessions, id)
			n++
		}
	}
	return n, nil
}

// --- workspaces -------------------------------------------------------------

type workspaceStore struct{ view }

func (w workspaceStore) Create(_ context.Context, workspace models.Workspace) error {
	w.s.mu.Lock()
	defer w.s.mu.Unlock()

	if _, ok := w.s.data.workspaces[workspace.ID]; ok {
		return repository.ErrConflict
	}
	now := w.s.now()
	workspace.CreatedAt, workspace.UpdatedAt = now, now
	put(w.tx, w.s.data.workspaces, workspace.ID, record[models.Workspace]{seq: w.s.data.next(), value: workspace})
	return nil
}

func (w workspaceStore) GetByID(_ context.Context, id string) (models.Workspace, error) {
	w.s.mu.Lock()
	defer w.s.mu.Unlock()

	r, ok := w.s.data.workspaces[id]
	if !ok {
		return models.Workspace{}, repository.ErrNotFound
	}
	return r.value, nil
}

func (w workspaceStore) Update(_ context.Context, workspace models.Workspace) error {
	w.s.mu.Lock()
	defer w.s.mu.Unlock()

	r, ok := w.s.data.workspaces[workspace.ID]
	if !ok {
		return repository.ErrNotFound
	}
	r.value.Name = workspace.Name
	r.value.Description = workspace.Description
	r.value.UpdatedAt = w.s.now()
	put(w.tx, w.s.data.workspaces, workspace.ID, r)
	return nil
}

func (w workspaceStore) FindOwnedBy(_ context.Context, userID string) (models.Workspace, error) {
	w.s.mu.Lock()
	defer w.s.mu.Unlock()

	var owned []record[models.Workspace]
	for _, m := range w.s.data.members {
		if m.value.UserID != userID || m.value.Role != models.RoleOwner {
			continue
		}
		if ws, ok := w.s.data.workspaces[m.value.WorkspaceID]; ok {
			owned = append(owned, ws)
		}
	}
	if len(owned) == 0 {
		return models.Workspace{}, repository.ErrNotFound
	}
	return sortedValues(owned)[0], nil
}

func (w workspaceStore) ListForUser(_ context.Context, userID string) ([]models.Membership, error) {
	w.s.mu.Lock()
	defer w.s.mu.Unlock()

	var out []record[models.Membership]
	for _, m := range w.s.data.members {
		if m.value.UserID != userID {
			continue
		}
		ws, ok := w.s.data.workspaces[m.value.WorkspaceID]
		if !ok {
			continue
		}
		out = append(out, record[models.Membership]{
			seq:   m.seq,
			value: models.Membership{Workspace: ws.value, Role: m.value.Role, JoinedAt: m.value.JoinedAt},
		})
	}
	return sortedValues(out), nil
}

// --- members ----------------------------------------------------------------

type memberStore struct{ view }

func (ms memberStore) Create(_ context.Context, member models.WorkspaceMember) error {
	ms.s.mu.Lock()
	defer ms.s.mu.Unlock()

	for _, r := range ms.s.data.members {
		if r.value.WorkspaceID != member.WorkspaceID {
			continue
		}
		if r.value.UserID == member.UserID {
			return repository.ErrConflict
		}
		if member.Role == models.RoleOwner && r.value.Role == models.RoleOwner {
			return repository.ErrConflict
		}
	}
	put(ms.tx, ms.s.data.members, member.ID, record[models.WorkspaceMember]{seq: ms.s.data.next(), value: member})
	return nil
}

func (ms memberStore) Find(_ context.Context, workspaceID string, userID string) (models.WorkspaceMember, error) {
	ms.s.mu.Lock()
	defer ms.s.mu.Unlock()

	for _, r := range ms.s.data.members {
		if r.value.WorkspaceID == workspaceID && r.value.UserID == userID {
			return r.value, nil
		}
	}
	return models.WorkspaceMember{}, repository.ErrNotFound
}

func (ms memberStore) GetByID(_ context.Context, workspaceID string, memberID string) (models.WorkspaceMember, error) {
	ms.s.mu.Lock()
	defer ms.s.mu.Unlock()

	r, ok := ms.s.data.members[memberID]
	if !ok || r.value.WorkspaceID != workspaceID {
		return models.WorkspaceMember{}, repository.ErrNotFound
	}
	return r.value, nil
}

func (ms memberStore) ListByWorkspace(_ context.Context, workspaceID string) ([]models.MemberWithUser, error) {
	ms.s.mu.Lock()
	defer ms.s.mu.Unlock()

	var out []record[models.MemberWithUser]
	for _, r := range ms.s.data.members {
		if r.value.WorkspaceID != workspaceID {
			continue
		}
		user := ms.s.data.users[r.value.UserID].value
		user.PasswordHash = ""
		user.VerificationCode = nil
		user.CodeExpires = nil
		out = append(out, record[models.MemberWithUser]{seq: r.seq, value: models.MemberWithUser{Member: r.value, User: user}})
	}
	return sortedValues(out), nil
}

func (ms memberStore) UpdateRole(_ context.Context, workspaceID string, memberID string, role models.Role) error {
	ms.s.mu.Lock()
	defer ms.s.mu.Unlock()

	r, ok := ms.s.data.members[memberID]
	if !ok || r.value.WorkspaceID != workspaceID {
		return repository.ErrNotFound
	}
	r.value.Role = role
	put(ms.tx, ms.s.data.members, memberID, r)
	return nil
}

func (ms memberStore) Delete(_ context.Context, workspaceID string, memberID string) error {
	ms.s.mu.Lock()
	defer ms.s.mu.Unlock()

	r, ok := ms.s.data.members[memberID]
	if !ok || r.value.WorkspaceID != workspaceID {
		return repository.ErrNotFound
	}
	drop(ms.tx, ms.s.data.members, memberID)
	return nil
}

// --- invitations ------------------------------------------------------------

type invitationStore struct{ view }

func (is invitationStore) Create(_ context.Context, inv models.Invitation) error {
	is.s.mu.Lock()
	defer is.s.mu.Unlock()

	if _, ok := is.s.data.invitations[inv.ID]; ok {
		return repository.ErrConflict
	}
	inv.CreatedAt = is.s.now()
	put(is.tx, is.s.data.invitations, inv.ID, record[models.Invitation]{seq: is.s.data.next(), value: inv})
	return nil
}

func (is invitationStore) Consume(_ context.Context, workspaceID string, id string, at time.Time) error {
	is.s.mu.Lock()
	defer is.s.mu.Unlock()

	r, ok := is.s.data.invitations[id]
	if !ok || r.value.WorkspaceID != workspaceID || !r.value.Pending(at) {
		return repository.ErrNotFound
	}
	r.value.AcceptedAt = &at
	put(is.tx, is.s.data.invitations, id, r)
	return nil
}

func (is invitationStore) RevokePending(_ context.Context, workspaceID string, email string, at time.Time) (int64, error) {
	is.s.mu.Lock()
	defer is.s.mu.Unlock()

	var n int64
	for id, r := range is.s.data.invitations {
		inv := r.value
		if inv.WorkspaceID != workspaceID || !strings.EqualFold(inv.Email, email) {
			continue
		}
		if inv.AcceptedAt != nil || inv.RevokedAt != nil {
			continue
		}
		r.value.RevokedAt = &at
		put(is.tx, is.s.data.invitations, id, r)
		n++
	}
	return n, nil
}

// --- categories -------------------------------------------------------------

type categoryStore struct{ view }

func (cs categoryStore) nameTaken(category models.Category) bool {
	for _, r := range cs.s.data.categories {
		if r.value.WorkspaceID == category.WorkspaceID && r.value.ID != category.ID && r.value.Name == category.Name {
			return true
		}
	}
	return false
}

func (cs categoryStore) Create(_ context.Context, category models.Category) error {
	cs.s.mu.Lock()
	defer cs.s.mu.Unlock()

	if cs.nameTaken(category) {
		return repository.ErrConflict
	}
	now := cs.s.now()
	category.CreatedAt, category.UpdatedAt = now, now
	put(cs.tx, cs.s.data.categories, category.ID, record[models.Category]{seq: cs.s.data.next(), value: category})
	return nil
}

func (cs categoryStore) GetByID(_ context.Context, workspaceID string, id string) (models.Category, error) {
	cs.s.mu.Lock()
	defer cs.s.mu.Unlock()

	r, ok := cs.s.data.categories[id]
	if !ok || r.value.WorkspaceID != workspaceID {
		return models.Category{}, repository.ErrNotFound
	}
	return r.value, nil
}

func (cs categoryStore) ListByWorkspace(_ context.Context, workspaceID string) ([]models.Category, error) {
	cs.s.mu.Lock()
	defer cs.s.mu.Unlock()

	var out []record[models.Category]
	for _, r := range cs.s.data.categories {
		if r.value.WorkspaceID == workspaceID {
			out = append(out, r)
		}
	}
	return sortedValues(out), nil
}

func (cs categoryStore) Update(_ context.Context, category models.Category) error {
	cs.s.mu.Lock()
	defer cs.s.mu.Unlock()

	r, ok := cs.s.data.categories[category.ID]
	if !ok || r.value.WorkspaceID != category.WorkspaceID {
		return repository.ErrNotFound
	}
	if cs.nameTaken(category) {
		return repository.ErrConflict
	}
	r.value.Name = category.Name
	r.value.Color = category.Color
	r.value.Icon = category.Icon
	r.value.UpdatedAt = cs.s.now()
	put(cs.tx, cs.s.data.categories, category.ID, r)
	return nil
}

func (cs categoryStore) Delete(_ context.Context, workspaceID string, id string) error {
	cs.s.mu.Lock()
	defer cs.s.mu.Unlock()

	r, ok := cs.s.data.categories[id]
	if !ok || r.value.WorkspaceID != workspaceID {
		return repository.ErrNotFound
	}
	drop(cs.tx, cs.s.data.categories, id)

	for urlID, u := range cs.s.data.urls {
		if u.value.CategoryID != nil && *u.value.CategoryID == id {
			u.value.CategoryID = nil
			put(cs.tx, cs.s.data.urls, urlID, u)
		}
	}
	return nil
}

// --- urls -------------------------------------------------------------------

type urlStore struct{ view }

func (us urlStore) Create(_ context.Context, url models.URL) error {
	us.s.mu.Lock()
	defer us.s.mu.Unlock()

	now := us.s.now()
	url.CreatedAt, url.UpdatedAt = now, now
	put(us.tx, us.s.data.urls, url.ID, record[models.URL]{seq: us.s.data.next(), value: url})
	return nil
}

func (us urlStore) GetByID(_ context.Context, workspaceID string, id string) (models.URL, error) {
	us.s.mu.Lock()
	defer us.s.mu.Unlock()

	r, ok := us.s.data.urls[id]
	if !ok || r.value.WorkspaceID != workspaceID {
		return models.URL{}, repository.ErrNotFound
	}
	return r.value, nil
}

func (us urlStore) List(_ context.Context, workspaceID string, categoryID *string) ([]models.URL, error) {
	us.s.mu.Lock()
	defer us.s.mu.Unlock()

	var out []record[models.URL]
	for _, r := range us.s.data.urls {
		if r.value.WorkspaceID != workspaceID {
			continue
		}
		if categoryID != nil && (r.value.CategoryID == nil || *r.value.CategoryID != *categoryID) {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].seq > out[j].seq })
	urls := make([]models.URL, len(out))
	for i, r := range out {
		urls[i] = r.value
	}
	return urls, nil
}

func (us urlStore) Update(_ context.Context, url models.URL) error {
	us.s.mu.Lock()
	defer us.s.mu.Unlock()

	r, ok := us.s.data.urls[url.ID]
	if !ok || r.value.WorkspaceID != url.WorkspaceID {
		return repository.ErrNotFound
	}
	r.value.URL = url.URL
	r.value.Title = url.Title
	r.value.Description = url.Description
	r.value.CategoryID = url.CategoryID
	r.value.UpdatedAt = us.s.now()
	put(us.tx, us.s.data.urls, url.ID, r)
	return nil
}

func (us urlStore) SetAsset(_ context.Context, workspaceID string, id string, kind models.AssetKind, location string) error {
	us.s.mu.Lock()
	defer us.s.mu.Unlock()

	r, ok := us.s.data.urls[id]
	if !ok || r.value.WorkspaceID != workspaceID {
		return repository.ErrNotFound
	}
	switch kind {
	case models.AssetScreenshot:
		r.value.Screenshot = &location
	case models.AssetFavicon:
		r.value.Favicon = &location
	}
	r.value.UpdatedAt = us.s.now()
	put(us.tx, us.s.data.urls, id, r)
	return nil
}

func (us urlStore) Delete(_ context.Context, workspaceID string, id string) error {
	us.s.mu.Lock()
	defer us.s.mu.Unlock()

	r, ok := us.s.data.urls[id]
	if !ok || r.value.WorkspaceID != workspaceID {
		return repository.ErrNotFound
	}
	drop(us.tx, us.s.data.urls, id)
	return nil
}
