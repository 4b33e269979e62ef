package services

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/foodgram/internal/common"
	"github.com/dmitrijs2005/foodgram/internal/dbx"
	"github.com/dmitrijs2005/foodgram/internal/logging"
	"github.com/dmitrijs2005/foodgram/internal/server/models"
	"github.com/dmitrijs2005/foodgram/internal/server/repositories/ingredients"
	"github.com/dmitrijs2005/foodgram/internal/server/repositories/marks"
	"github.com/dmitrijs2005/foodgram/internal/server/repositories/recipeingredients"
	"github.com/dmitrijs2005/foodgram/internal/server/repositories/recipes"
	"github.com/dmitrijs2005/foodgram/internal/server/repositories/subscriptions"
	"github.com/dmitrijs2005/foodgram/internal/server/repositories/users"
	"github.com/dmitrijs2005/foodgram/internal/server/storage"
)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

type pair struct{ a, b int64 }

// memStore is an in-memory stand-in for the database behind every fake
// repository. fail forces the named method to return the given error.
type memStore struct {
	mu sync.Mutex

	seq         int64
	users       map[int64]*models.User
	ingredients map[int64]*models.Ingredient
	recipes     map[int64]*models.Recipe
	links       map[int64][]models.IngredientAmount
	marks       map[models.MarkKind]map[pair]int64
	subs        map[pair]int64

	fail map[string]error
}

func newMemStore() *memStore {
	return &memStore{
		users:       map[int64]*models.User{},
		ingredients: map[int64]*models.Ingredient{},
		recipes:     map[int64]*models.Recipe{},
		links:       map[int64][]models.IngredientAmount{},
		marks:       map[models.MarkKind]map[pair]int64{models.MarkFavorite: {}, models.MarkCart: {}},
		subs:        map[pair]int64{},
		fail:        map[string]error{},
	}
}

func (m *memStore) next() int64 {
	m.seq++
	return m.seq
}

func (m *memStore) failed(method string) error {
	return m.fail[method]
}

func (m *memStore) addUser(username string) *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := &models.User{
		ID:        m.next(),
		Email:     username + "@example.com",
		Username:  username,
		FirstName: strings.ToUpper(username[:1]) + username[1:],
		LastName:  "Tester",
	}
	m.users[u.ID] = u
	return u
}

func (m *memStore) addIngredient(name, unit string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.next()
	m.ingredients[id] = &models.Ingredient{ID: id, Name: name, MeasurementUnit: unit}
	return id
}

func (m *memStore) addRecipe(authorID int64, name string, items ...models.IngredientAmount) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.next()
	m.recipes[id] = &models.Recipe{ID: id, AuthorID: authorID, Name: name, Text: "text", Image: "recipes/images/" + name + ".png", CookingTime: 10}
	m.links[id] = append([]models.IngredientAmount(nil), items...)
	return id
}

func (m *memStore) hasMark(kind models.MarkKind, userID, recipeID int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.marks[kind][pair{userID, recipeID}]
	return ok
}

// --- users ---

type fakeUsers struct{ s *memStore }

func (f fakeUsers) Create(ctx context.Context, u *models.User) (*models.User, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if err := f.s.failed("Users.Create"); err != nil {
		return nil, err
	}
	for _, x := range f.s.users {
		if strings.EqualFold(x.Email, u.Email) {
			return nil, common.ErrEmailTaken
		}
		if x.Username == u.Username {
			return nil, common.ErrUsernameTaken
		}
	}
	u.ID = f.s.next()
	cp := *u
	f.s.users[u.ID] = &cp
	return u, nil
}

func (f fakeUsers) GetByID(ctx context.Context, id int64) (*models.User, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if err := f.s.failed("Users.GetByID"); err != nil {
		return nil, err
	}
	u, ok := f.s.users[id]
	if !ok {
		return nil, common.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (f fakeUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, u := range f.s.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrUserNotFound
}

func (f fakeUsers) sorted() []*models.User {
	var all []*models.User
	for _, u := range f.s.users {
		cp := *u
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Username < all[j].Username })
	return all
}

func (f fakeUsers) List(ctx context.Context, limit, offset int) ([]*models.User, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	return page(f.sorted(), limit, offset), nil
}

func (f fakeUsers) Count(ctx context.Context) (int, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	return len(f.s.users), nil
}

func (f fakeUsers) UpdatePassword(ctx context.Context, id int64, hash string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	u, ok := f.s.users[id]
	if !ok {
		return common.ErrUserNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (f fakeUsers) UpdateAvatar(ctx context.Context, id int64, avatar *string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if err := f.s.failed("Users.UpdateAvatar"); err != nil {
		return err
	}
	u, ok := f.s.users[id]
	if !ok {
		return common.ErrUserNotFound
	}
	u.Avatar = avatar
	return nil
}

func page[T any](all []T, limit, offset int) []T {
	if offset >= len(all) {
		return []T{}
	}
	end := len(all)
	if limit >= 0 && offset+limit < end {
		end = offset + limit
	}
	return all[offset:end]
}

// --- ingredients ---

type fakeIngredients struct{ s *memStore }

func (f fakeIngredients) List(ctx context.Context, name string) ([]*models.Ingredient, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var out []*models.Ingredient
	for _, in := range f.s.ingredients {
		if strings.Contains(strings.ToLower(in.Name), strings.ToLower(name)) {
			cp := *in
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f fakeIngredients) GetByID(ctx context.Context, id int64) (*models.Ingredient, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	in, ok := f.s.ingredients[id]
	if !ok {
		return nil, common.ErrIngredientAbsent
	}
	cp := *in
	return &cp, nil
}

func (f fakeIngredients) CountExisting(ctx context.Context, ids []int64) (int, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if err := f.s.failed("Ingredients.CountExisting"); err != nil {
		return 0, err
	}
	n := 0
	for _, id := range ids {
		if _, ok := f.s.ingredients[id]; ok {
			n++
		}
	}
	return n, nil
}

func (f fakeIngredients) BulkInsert(ctx context.Context, items []models.Ingredient) (int, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	n := 0
outer:
	for _, it := range items {
		for _, x := range f.s.ingredients {
			if x.Name == it.Name && x.MeasurementUnit == it.MeasurementUnit {
				continue outer
			}
		}
		id := f.s.next()
		f.s.ingredients[id] = &models.Ingredient{ID: id, Name: it.Name, MeasurementUnit: it.MeasurementUnit}
		n++
	}
	return n, nil
}

// --- recipes ---

type fakeRecipes struct{ s *memStore }

func (f fakeRecipes) withFlags(r *models.Recipe, viewerID int64) *models.Recipe {
	cp := *r
	_, cp.IsFavorited = f.s.marks[models.MarkFavorite][pair{viewerID, r.ID}]
	_, cp.IsInShoppingCart = f.s.marks[models.MarkCart][pair{viewerID, r.ID}]
	return &cp
}

func (f fakeRecipes) Create(ctx context.Context, r *models.Recipe) (*models.Recipe, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if err := f.s.failed("Recipes.Create"); err != nil {
		return nil, err
	}
	r.ID = f.s.next()
	cp := *r
	f.s.recipes[r.ID] = &cp
	return r, nil
}

func (f fakeRecipes) Update(ctx context.Context, r *models.Recipe) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if _, ok := f.s.recipes[r.ID]; !ok {
		return common.ErrRecipeNotFound
	}
	cp := *r
	f.s.recipes[r.ID] = &cp
	return nil
}

func (f fakeRecipes) Delete(ctx context.Context, id int64) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if _, ok := f.s.recipes[id]; !ok {
		return common.ErrRecipeNotFound
	}
	delete(f.s.recipes, id)
	delete(f.s.links, id)
	for _, m := range f.s.marks {
		for k := range m {
			if k.b == id {
				delete(m, k)
			}
		}
	}
	return nil
}

func (f fakeRecipes) GetByID(ctx context.Context, id, viewerID int64) (*models.Recipe, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if err := f.s.failed("Recipes.GetByID"); err != nil {
		return nil, err
	}
	r, ok := f.s.recipes[id]
	if !ok {
		return nil, common.ErrRecipeNotFound
	}
	return f.withFlags(r, viewerID), nil
}

func (f fakeRecipes) Exists(ctx context.Context, id int64) (bool, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	_, ok := f.s.recipes[id]
	return ok, nil
}

func (f fakeRecipes) filtered(filter models.RecipeFilter, viewerID int64) []*models.Recipe {
	var out []*models.Recipe
	for _, r := range f.s.recipes {
		x := f.withFlags(r, viewerID)
		if filter.AuthorID != nil && x.AuthorID != *filter.AuthorID {
			continue
		}
		if filter.Name != nil && x.Name != *filter.Name {
			continue
		}
		if filter.IsFavorited != nil && x.IsFavorited != *filter.IsFavorited {
			continue
		}
		if filter.IsInShoppingCart != nil && x.IsInShoppingCart != *filter.IsInShoppingCart {
			continue
		}
		out = append(out, x)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (f fakeRecipes) List(ctx context.Context, filter models.RecipeFilter, viewerID int64, limit, offset int) ([]*models.Recipe, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	return page(f.filtered(filter, viewerID), limit, offset), nil
}

func (f fakeRecipes) Count(ctx context.Context, filter models.RecipeFilter, viewerID int64) (int, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	return len(f.filtered(filter, viewerID)), nil
}

func (f fakeRecipes) ListByAuthor(ctx context.Context, authorID int64, limit int) ([]models.RecipeSummary, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	out := []models.RecipeSummary{}
	for _, r := range f.filtered(models.RecipeFilter{AuthorID: &authorID}, 0) {
		out = append(out, r.Summary())
	}
	return page(out, limit, 0), nil
}

func (f fakeRecipes) CountByAuthor(ctx context.Context, authorID int64) (int, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	return len(f.filtered(models.RecipeFilter{AuthorID: &authorID}, 0)), nil
}

// --- recipe ingredients ---

type fakeLinks struct{ s *memStore }

func (f fakeLinks) DeleteByRecipe(ctx context.Context, recipeID int64) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	delete(f.s.links, recipeID)
	return nil
}

func (f fakeLinks) BulkInsert(ctx context.Context, recipeID int64, items []models.IngredientAmount) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if err := f.s.failed("Links.BulkInsert"); err != nil {
		return err
	}
	f.s.links[recipeID] = append(f.s.links[recipeID], items...)
	return nil
}

func (f fakeLinks) ListByRecipe(ctx context.Context, recipeID int64) ([]models.RecipeIngredient, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	out := []models.RecipeIngredient{}
	for _, l := range f.s.links[recipeID] {
		in := f.s.ingredients[l.IngredientID]
		out = append(out, models.RecipeIngredient{IngredientID: in.ID, Name: in.Name, MeasurementUnit: in.MeasurementUnit, Amount: l.Amount})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f fakeLinks) ListCartLines(ctx context.Context, userID int64) ([]models.CartLine, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if err := f.s.failed("Links.ListCartLines"); err != nil {
		return nil, err
	}
	var out []models.CartLine
	for k := range f.s.marks[models.MarkCart] {
		if k.a != userID {
			continue
		}
		for _, l := range f.s.links[k.b] {
			in := f.s.ingredients[l.IngredientID]
			out = append(out, models.CartLine{RecipeID: k.b, Name: in.Name, MeasurementUnit: in.MeasurementUnit, Amount: l.Amount})
		}
	}
	return out, nil
}

// --- marks ---

type fakeMarks struct{ s *memStore }

func (f fakeMarks) Add(ctx context.Context, kind models.MarkKind, userID, recipeID int64) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	k := pair{userID, recipeID}
	if _, ok := f.s.marks[kind][k]; ok {
		return common.ErrAlreadyAdded
	}
	f.s.marks[kind][k] = f.s.next()
	return nil
}

func (f fakeMarks) Remove(ctx context.Context, kind models.MarkKind, userID, recipeID int64) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	k := pair{userID, recipeID}
	if _, ok := f.s.marks[kind][k]; !ok {
		return common.ErrNotPresent
	}
	delete(f.s.marks[kind], k)
	return nil
}

func (f fakeMarks) ListRecipes(ctx context.Context, kind models.MarkKind, userID int64) ([]models.CartRecipe, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	type row struct {
		seq int64
		r   models.CartRecipe
	}
	var rows []row
	for k, seq := range f.s.marks[kind] {
		if k.a != userID {
			continue
		}
		r := f.s.recipes[k.b]
		cr := models.CartRecipe{ID: r.ID, Name: r.Name}
		if u, ok := f.s.users[r.AuthorID]; ok {
			cr.AuthorUsername = u.Username
		}
		rows = append(rows, row{seq, cr})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq < rows[j].seq })
	out := []models.CartRecipe{}
	for _, r := range rows {
		out = append(out, r.r)
	}
	return out, nil
}

// --- subscriptions ---

type fakeSubs struct{ s *memStore }

func (f fakeSubs) Create(ctx context.Context, userID, authorID int64) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if userID == authorID {
		return common.ErrFollowSelf
	}
	k := pair{userID, authorID}
	if _, ok := f.s.subs[k]; ok {
		return common.ErrAlreadyFollowing
	}
	f.s.subs[k] = f.s.next()
	return nil
}

func (f fakeSubs) Delete(ctx context.Context, userID, authorID int64) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	k := pair{userID, authorID}
	if _, ok := f.s.subs[k]; !ok {
		return common.ErrNotFollowing
	}
	delete(f.s.subs, k)
	return nil
}

func (f fakeSubs) Exists(ctx context.Context, userID, authorID int64) (bool, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	_, ok := f.s.subs[pair{userID, authorID}]
	return ok, nil
}

func (f fakeSubs) FollowedAmong(ctx context.Context, userID int64, ids []int64) (map[int64]bool, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	out := map[int64]bool{}
	for _, id := range ids {
		if _, ok := f.s.subs[pair{userID, id}]; ok {
			out[id] = true
		}
	}
	return out, nil
}

func (f fakeSubs) ListAuthors(ctx context.Context, userID int64, limit, offset int) ([]*models.User, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	type row struct {
		seq int64
		u   *models.User
	}
	var rows []row
	for k, seq := range f.s.subs {
		if k.a == userID {
			cp := *f.s.users[k.b]
			rows = append(rows, row{seq, &cp})
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq < rows[j].seq })
	var out []*models.User
	for _, r := range rows {
		out = append(out, r.u)
	}
	return page(out, limit, offset), nil
}

func (f fakeSubs) Count(ctx context.Context, userID int64) (int, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	n := 0
	for k := range f.s.subs {
		if k.a == userID {
			n++
		}
	}
	return n, nil
}

// --- manager ---

type fakeRepoManager struct{ s *memStore }

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository           { return fakeUsers{m.s} }
func (m *fakeRepoManager) Ingredients(dbx.DBTX) ingredients.Repository {
	return fakeIngredients{m.s}
}
func (m *fakeRepoManager) Recipes(dbx.DBTX) recipes.Repository { return fakeRecipes{m.s} }
func (m *fakeRepoManager) RecipeIngredients(dbx.DBTX) recipeingredients.Repository {
	return fakeLinks{m.s}
}
func (m *fakeRepoManager) Marks(dbx.DBTX) marks.Repository                 { return fakeMarks{m.s} }
func (m *fakeRepoManager) Subscriptions(dbx.DBTX) subscriptions.Repository { return fakeSubs{m.s} }

// --- image store ---

type fakeImages struct {
	mu      sync.Mutex
	objects map[string][]byte
	putErr  error
	delErr  error
	deleted []string
	n       int
}

func newFakeImages() *fakeImages { return &fakeImages{objects: map[string][]byte{}} }

func (f *fakeImages) Put(ctx context.Context, prefix string, img *storage.Image) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.putErr != nil {
		return "", f.putErr
	}
	f.n++
	key := storage.NewKey(prefix, img.Ext)
	f.objects[key] = img.Data
	return key, nil
}

func (f *fakeImages) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, key)
	if f.delErr != nil {
		return f.delErr
	}
	delete(f.objects, key)
	return nil
}

// recordingLogger keeps Error and Warn messages.
type recordingLogger struct {
	logging.Nop
	mu     sync.Mutex
	errors []string
}

func (l *recordingLogger) Error(_ context.Context, msg string, _ ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, msg)
}

func (l *recordingLogger) Warn(ctx context.Context, msg string, args ...any) {
	l.Error(ctx, msg, args...)
}

func (l *recordingLogger) With(...any) logging.Logger { return l }
