package service_test

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/pkordes/camp-directory/internal/domain"
	"github.com/pkordes/camp-directory/internal/repo"
)

// ---- mock CampRepo ---------------------------------------------------------

type mockCampRepo struct {
	getByID        func(ctx context.Context, id int64) (domain.Camp, error)
	getByUniqueKey func(ctx context.Context, key string) (domain.Camp, error)
	search         func(ctx context.Context, q domain.SearchQuery) ([]domain.CampSummary, int64, error)
	create         func(ctx context.Context, camp domain.Camp) (domain.Camp, error)
	update         func(ctx context.Context, camp domain.Camp) (domain.Camp, error)
	setOwner       func(ctx context.Context, campID, accountID int64) error
	listFeatured   func(ctx context.Context, category domain.FeaturedCategory, limit int) ([]domain.Camp, error)
	listForExport  func(ctx context.Context) ([]domain.CampDetail, error)
}

func (m *mockCampRepo) GetByID(ctx context.Context, id int64) (domain.Camp, error) {
	return m.getByID(ctx, id)
}
func (m *mockCampRepo) GetByUniqueKey(ctx context.Context, key string) (domain.Camp, error) {
	return m.getByUniqueKey(ctx, key)
}
func (m *mockCampRepo) Search(ctx context.Context, q domain.SearchQuery) ([]domain.CampSummary, int64, error) {
	return m.search(ctx, q)
}
func (m *mockCampRepo) Create(ctx context.Context, camp domain.Camp) (domain.Camp, error) {
	return m.create(ctx, camp)
}
func (m *mockCampRepo) Update(ctx context.Context, camp domain.Camp) (domain.Camp, error) {
	return m.update(ctx, camp)
}
func (m *mockCampRepo) SetOwner(ctx context.Context, campID, accountID int64) error {
	return m.setOwner(ctx, campID, accountID)
}
func (m *mockCampRepo) ListFeatured(ctx context.Context, category domain.FeaturedCategory, limit int) ([]domain.Camp, error) {
	return m.listFeatured(ctx, category, limit)
}
func (m *mockCampRepo) ListForExport(ctx context.Context) ([]domain.CampDetail, error) {
	return m.listForExport(ctx)
}

// ---- mock TermRepo ---------------------------------------------------------

type mockTermRepo struct {
	list       func(ctx context.Context, v domain.Vocabulary, prefix string) ([]domain.Term, error)
	listByCamp func(ctx context.Context, v domain.Vocabulary, campID int64) ([]domain.Term, error)
}

func (m *mockTermRepo) FindByNameOrSlug(context.Context, domain.Vocabulary, string, string) (domain.Term, error) {
	panic("unexpected call to FindByNameOrSlug")
}
func (m *mockTermRepo) Upsert(context.Context, domain.Vocabulary, string, string) (domain.Term, bool, error) {
	panic("unexpected call to Upsert")
}
func (m *mockTermRepo) Link(context.Context, domain.Vocabulary, int64, int64) (bool, error) {
	panic("unexpected call to Link")
}
func (m *mockTermRepo) List(ctx context.Context, v domain.Vocabulary, prefix string) ([]domain.Term, error) {
	return m.list(ctx, v, prefix)
}
func (m *mockTermRepo) ListByCamp(ctx context.Context, v domain.Vocabulary, campID int64) ([]domain.Term, error) {
	return m.listByCamp(ctx, v, campID)
}

// compile-time checks
var (
	_ repo.CampRepo    = (*mockCampRepo)(nil)
	_ repo.TermRepo    = (*mockTermRepo)(nil)
	_ repo.CampRepo    = (*memCamps)(nil)
	_ repo.TermRepo    = (*memTerms)(nil)
	_ repo.AccountRepo = (*memAccounts)(nil)
)

// ---- in-memory store -------------------------------------------------------
// The import tests need a store that remembers writes across rows and across
// runs, so they use these fakes instead of func-field mocks.

type memStore struct {
	camps  map[int64]domain.Camp
	nextID int64

	terms map[domain.Vocabulary]map[string]domain.Term // by slug
	links map[string]bool

	usernames map[string]int64
	emails    map[string]bool
	profiles  map[int64]domain.Profile
	roles     map[int64][]string

	writes int
}

func newMemStore() *memStore {
	return &memStore{
		camps:     map[int64]domain.Camp{},
		terms:     map[domain.Vocabulary]map[string]domain.Term{},
		links:     map[string]bool{},
		usernames: map[string]int64{},
		emails:    map[string]bool{},
		profiles:  map[int64]domain.Profile{},
		roles:     map[int64][]string{},
	}
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *memStore) termNames(v domain.Vocabulary, campID int64) []string {
	var names []string
	for _, t := range s.terms[v] {
		if s.links[linkKey(v, campID, t.ID)] {
			names = append(names, t.Name)
		}
	}
	sort.Strings(names)
	return names
}

func linkKey(v domain.Vocabulary, campID, termID int64) string {
	return fmt.Sprintf("%s/%d/%d", v, campID, termID)
}

// memCamps implements repo.CampRepo over a memStore.
// Hooks, when set, run before the corresponding write and can fail it.
type memCamps struct {
	*memStore
	lookupErr func(key string) error
	createErr func(camp domain.Camp) error
}

func (m *memCamps) GetByID(_ context.Context, id int64) (domain.Camp, error) {
	c, ok := m.camps[id]
	if !ok {
		return domain.Camp{}, domain.ErrNotFound
	}
	return c, nil
}

func (m *memCamps) GetByUniqueKey(_ context.Context, key string) (domain.Camp, error) {
	if m.lookupErr != nil {
		if err := m.lookupErr(key); err != nil {
			return domain.Camp{}, err
		}
	}
	for _, c := range m.camps {
		if c.UniqueKey == key {
			return c, nil
		}
	}
	return domain.Camp{}, domain.ErrNotFound
}

func (m *memCamps) Search(context.Context, domain.SearchQuery) ([]domain.CampSummary, int64, error) {
	panic("unexpected call to Search")
}

func (m *memCamps) Create(_ context.Context, camp domain.Camp) (domain.Camp, error) {
	if m.createErr != nil {
		if err := m.createErr(camp); err != nil {
			return domain.Camp{}, err
		}
	}
	if _, err := m.GetByUniqueKey(context.Background(), camp.UniqueKey); err == nil {
		return domain.Camp{}, domain.ErrDuplicateKey
	}
	m.writes++
	camp.ID = m.id()
	camp.CreatedAt = time.Now()
	camp.UpdatedAt = camp.CreatedAt
	m.camps[camp.ID] = camp
	return camp, nil
}

func (m *memCamps) Update(_ context.Context, camp domain.Camp) (domain.Camp, error) {
	old, ok := m.camps[camp.ID]
	if !ok {
		return domain.Camp{}, domain.ErrNotFound
	}
	m.writes++
	camp.UniqueKey = old.UniqueKey
	camp.OwnerAccountID = old.OwnerAccountID
	camp.Featured = old.Featured
	camp.CreatedAt = old.CreatedAt
	camp.UpdatedAt = time.Now()
	m.camps[camp.ID] = camp
	return camp, nil
}

func (m *memCamps) SetOwner(_ context.Context, campID, accountID int64) error {
	c, ok := m.camps[campID]
	if !ok {
		return domain.ErrNotFound
	}
	m.writes++
	c.OwnerAccountID = &accountID
	m.camps[campID] = c
	return nil
}

func (m *memCamps) ListFeatured(context.Context, domain.FeaturedCategory, int) ([]domain.Camp, error) {
	panic("unexpected call to ListFeatured")
}

func (m *memCamps) ListForExport(context.Context) ([]domain.CampDetail, error) {
	panic("unexpected call to ListForExport")
}

// memTerms implements repo.TermRepo over a memStore.
type memTerms struct {
	*memStore
	linkErr func(v domain.Vocabulary, name string) error
}

func (m *memTerms) FindByNameOrSlug(_ context.Context, v domain.Vocabulary, name, slug string) (domain.Term, error) {
	for _, t := range m.terms[v] {
		if t.Name == name {
			return t, nil
		}
	}
	if t, ok := m.terms[v][slug]; ok {
		return t, nil
	}
	return domain.Term{}, domain.ErrNotFound
}

func (m *memTerms) Upsert(_ context.Context, v domain.Vocabulary, name, slug string) (domain.Term, bool, error) {
	if t, ok := m.terms[v][slug]; ok {
		return t, false, nil
	}
	if m.terms[v] == nil {
		m.terms[v] = map[string]domain.Term{}
	}
	m.writes++
	t := domain.Term{ID: m.id(), Vocabulary: v, Name: name, Slug: slug, Active: true}
	m.terms[v][slug] = t
	return t, true, nil
}

func (m *memTerms) Link(_ context.Context, v domain.Vocabulary, campID, termID int64) (bool, error) {
	if m.linkErr != nil {
		for _, t := range m.terms[v] {
			if t.ID == termID {
				if err := m.linkErr(v, t.Name); err != nil {
					return false, err
				}
			}
		}
	}
	k := linkKey(v, campID, termID)
	if m.links[k] {
		return false, nil
	}
	m.writes++
	m.links[k] = true
	return true, nil
}

func (m *memTerms) List(_ context.Context, v domain.Vocabulary, prefix string) ([]domain.Term, error) {
	var out []domain.Term
	for _, t := range m.terms[v] {
		if strings.HasPrefix(t.Slug, prefix) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memTerms) ListByCamp(_ context.Context, v domain.Vocabulary, campID int64) ([]domain.Term, error) {
	var out []domain.Term
	for _, t := range m.terms[v] {
		if m.links[linkKey(v, campID, t.ID)] {
			out = append(out, t)
		}
	}
	return out, nil
}

// memAccounts implements repo.AccountRepo over a memStore.
type memAccounts struct {
	*memStore
	// hide makes UsernameExists report these names as free, simulating a
	// concurrent writer that claims them between check and create.
	hide map[string]bool
}

func (m *memAccounts) Create(_ context.Context, username, passwordHash, email string) (int64, error) {
	if _, ok := m.usernames[username]; ok {
		return 0, fmt.Errorf("%w (accounts_username_key)", domain.ErrDuplicateKey)
	}
	if m.emails[email] {
		return 0, fmt.Errorf("%w (accounts_email_key)", domain.ErrDuplicateKey)
	}
	if passwordHash == "" {
		return 0, fmt.Errorf("empty hash")
	}
	m.writes++
	id := m.id()
	m.usernames[username] = id
	m.emails[email] = true
	return id, nil
}

func (m *memAccounts) UsernameExists(_ context.Context, username string) (bool, error) {
	if m.hide[username] {
		delete(m.hide, username)
		return false, nil
	}
	_, ok := m.usernames[username]
	return ok, nil
}

func (m *memAccounts) UpdateProfile(_ context.Context, id int64, p domain.Profile) error {
	m.writes++
	m.profiles[id] = p
	return nil
}

func (m *memAccounts) AssignRole(_ context.Context, id int64, role string) error {
	m.writes++
	m.roles[id] = append(m.roles[id], role)
	return nil
}
