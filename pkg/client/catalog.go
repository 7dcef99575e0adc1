package client

import (
	"context"
	"net/url"
	"strconv"
	"sync"
)

// collection is an in-memory cache of one API collection. Items are only
// replaced or mutated after the server confirmed the operation; a failed load
// records the error message and leaves the previous items untouched.
type collection[T any] struct {
	mu      sync.RWMutex
	items   []T
	loading bool
	err     string
}

// CollectionState is a point-in-time snapshot of a cached collection.
type CollectionState[T any] struct {
	Items   []T
	Loading bool
	Err     string
}

func (c *collection[T]) snapshot() CollectionState[T] {
	c.mu.RLock()
	defer c.mu.RUnlock()
	items := make([]T, len(c.items))
	copy(items, c.items)
	return CollectionState[T]{Items: items, Loading: c.loading, Err: c.err}
}

func (c *collection[T]) beginLoad() {
	c.mu.Lock()
	c.loading = true
	c.err = ""
	c.mu.Unlock()
}

func (c *collection[T]) finishLoad(items []T, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
	if err != nil {
		c.err = err.Error()
		return
	}
	c.items = items
}

func (c *collection[T]) replace(match func(T) bool, item T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if match(c.items[i]) {
			c.items[i] = item
			return
		}
	}
	c.items = append(c.items, item)
}

func (c *collection[T]) remove(match func(T) bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if match(c.items[i]) {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}

// Catalog caches the subject, grade, question, option and user collections
// on top of the API client.
type Catalog struct {
	client *Client

	subjects  collection[Subject]
	grades    collection[Grade]
	questions collection[Question]
	options   collection[Option]
	users     collection[User]

	mu           sync.RWMutex
	questionMeta QuestionPage
	userMeta     UserPage
}

// NewCatalog creates catalog caches for a client.
func NewCatalog(client *Client) *Catalog {
	return &Catalog{client: client}
}

// Subjects returns the current subject cache state.
func (cat *Catalog) Subjects() CollectionState[Subject] { return cat.subjects.snapshot() }

// Grades returns the current grade cache state.
func (cat *Catalog) Grades() CollectionState[Grade] { return cat.grades.snapshot() }

// Questions returns the current question cache state.
func (cat *Catalog) Questions() CollectionState[Question] { return cat.questions.snapshot() }

// Options returns the current option cache state.
func (cat *Catalog) Options() CollectionState[Option] { return cat.options.snapshot() }

// Users returns the current user cache state.
func (cat *Catalog) Users() CollectionState[User] { return cat.users.snapshot() }

// LoadSubjects fetches all subjects, optionally filtered by a title search
// term, into the cache.
func (cat *Catalog) LoadSubjects(ctx context.Context, search string) ([]Subject, error) {
	query := url.Values{}
	if search != "" {
		query.Set("search", search)
	}

	cat.subjects.beginLoad()
	var items []Subject
	err := cat.client.get(ctx, "/api/subjects", query, &items)
	cat.subjects.finishLoad(items, err)
	return items, err
}

// CreateSubject creates a subject and adds it to the cache.
func (cat *Catalog) CreateSubject(ctx context.Context, title string) (*Subject, error) {
	var created Subject
	if err := cat.client.post(ctx, "/api/subjects", map[string]string{"title": title}, &created); err != nil {
		return nil, err
	}
	cat.subjects.replace(func(s Subject) bool { return s.ID == created.ID }, created)
	return &created, nil
}

// UpdateSubject updates a subject and the cached copy.
func (cat *Catalog) UpdateSubject(ctx context.Context, id uint, title string) (*Subject, error) {
	var updated Subject
	if err := cat.client.put(ctx, "/api/subjects/"+strconv.FormatUint(uint64(id), 10), map[string]string{"title": title}, &updated); err != nil {
		return nil, err
	}
	cat.subjects.replace(func(s Subject) bool { return s.ID == updated.ID }, updated)
	return &updated, nil
}

// DeleteSubject deletes a subject and evicts it from the cache.
func (cat *Catalog) DeleteSubject(ctx context.Context, id uint) error {
	if err := cat.client.delete(ctx, "/api/subjects/"+strconv.FormatUint(uint64(id), 10)); err != nil {
		return err
	}
	cat.subjects.remove(func(s Subject) bool { return s.ID == id })
	return nil
}

// LoadGrades fetches grades, optionally narrowed to one subject.
func (cat *Catalog) LoadGrades(ctx context.Context, subjectID uint) ([]Grade, error) {
	query := url.Values{}
	if subjectID != 0 {
		query.Set("subjectId", strconv.FormatUint(uint64(subjectID), 10))
	}

	cat.grades.beginLoad()
	var items []Grade
	err := cat.client.get(ctx, "/api/grades", query, &items)
	cat.grades.finishLoad(items, err)
	return items, err
}

// GradeInput is the grade create/update payload.
type GradeInput struct {
	Title         string `json:"title"`
	SubjectID     uint   `json:"subjectId"`
	TimeMinutes   int    `json:"time"`
	QuestionCount int    `json:"questionCount"`
	IsActive      *bool  `json:"is_active,omitempty"`
}

// CreateGrade creates a grade and adds it to the cache.
func (cat *Catalog) CreateGrade(ctx context.Context, input GradeInput) (*Grade, error) {
	var created Grade
	if err := cat.client.post(ctx, "/api/grades", input, &created); err != nil {
		return nil, err
	}
	cat.grades.replace(func(g Grade) bool { return g.ID == created.ID }, created)
	return &created, nil
}

// UpdateGrade updates a grade and the cached copy.
func (cat *Catalog) UpdateGrade(ctx context.Context, id uint, input GradeInput) (*Grade, error) {
	var updated Grade
	if err := cat.client.put(ctx, "/api/grades/"+strconv.FormatUint(uint64(id), 10), input, &updated); err != nil {
		return nil, err
	}
	cat.grades.replace(func(g Grade) bool { return g.ID == updated.ID }, updated)
	return &updated, nil
}

// DeleteGrade deletes a grade and evicts it from the cache.
func (cat *Catalog) DeleteGrade(ctx context.Context, id uint) error {
	if err := cat.client.delete(ctx, "/api/grades/"+strconv.FormatUint(uint64(id), 10)); err != nil {
		return err
	}
	cat.grades.remove(func(g Grade) bool { return g.ID == id })
	return nil
}

// QuestionFilter narrows the question listing. subjectId and gradeId are the
// only filter parameters the API accepts.
type QuestionFilter struct {
	SubjectID uint
	GradeID   uint
	Page      int
	Limit     int
}

// LoadQuestions fetches one page of questions into the cache.
func (cat *Catalog) LoadQuestions(ctx context.Context, filter QuestionFilter) (*QuestionPage, error) {
	query := url.Values{}
	if filter.SubjectID != 0 {
		query.Set("subjectId", strconv.FormatUint(uint64(filter.SubjectID), 10))
	}
	if filter.GradeID != 0 {
		query.Set("gradeId", strconv.FormatUint(uint64(filter.GradeID), 10))
	}
	if filter.Page > 0 {
		query.Set("page", strconv.Itoa(filter.Page))
	}
	if filter.Limit > 0 {
		query.Set("limit", strconv.Itoa(filter.Limit))
	}

	cat.questions.beginLoad()
	var page QuestionPage
	err := cat.client.get(ctx, "/api/questions", query, &page)
	cat.questions.finishLoad(page.Items, err)
	if err != nil {
		return nil, err
	}

	cat.mu.Lock()
	cat.questionMeta = page
	cat.mu.Unlock()
	return &page, nil
}

// QuestionMeta returns the pagination metadata of the last question load.
func (cat *Catalog) QuestionMeta() QuestionPage {
	cat.mu.RLock()
	defer cat.mu.RUnlock()
	return cat.questionMeta
}

// QuestionInput is the question create/update payload.
type QuestionInput struct {
	Text    string `json:"question"`
	GradeID uint   `json:"gradeId"`
}

// CreateQuestion creates a question and adds it to the cache.
func (cat *Catalog) CreateQuestion(ctx context.Context, input QuestionInput) (*Question, error) {
	var created Question
	if err := cat.client.post(ctx, "/api/questions", input, &created); err != nil {
		return nil, err
	}
	cat.questions.replace(func(q Question) bool { return q.ID == created.ID }, created)
	return &created, nil
}

// UpdateQuestion updates a question and the cached copy.
func (cat *Catalog) UpdateQuestion(ctx context.Context, id uint, input QuestionInput) (*Question, error) {
	var updated Question
	if err := cat.client.put(ctx, "/api/questions/"+strconv.FormatUint(uint64(id), 10), input, &updated); err != nil {
		return nil, err
	}
	cat.questions.replace(func(q Question) bool { return q.ID == updated.ID }, updated)
	return &updated, nil
}

// DeleteQuestion deletes a question and evicts it from the cache.
func (cat *Catalog) DeleteQuestion(ctx context.Context, id uint) error {
	if err := cat.client.delete(ctx, "/api/questions/"+strconv.FormatUint(uint64(id), 10)); err != nil {
		return err
	}
	cat.questions.remove(func(q Question) bool { return q.ID == id })
	return nil
}

// LoadOptions fetches a question's options into the cache.
func (cat *Catalog) LoadOptions(ctx context.Context, questionID uint) ([]Option, error) {
	cat.options.beginLoad()
	var items []Option
	err := cat.client.get(ctx, "/api/questions/"+strconv.FormatUint(uint64(questionID), 10)+"/options", nil, &items)
	cat.options.finishLoad(items, err)
	return items, err
}

// OptionInput is the option create/update payload.
type OptionInput struct {
	QuestionID uint   `json:"questionId"`
	Variant    string `json:"variant"`
	IsCorrect  bool   `json:"is_correct"`
}

// CreateOption creates an option and adds it to the cache.
func (cat *Catalog) CreateOption(ctx context.Context, input OptionInput) (*Option, error) {
	var created Option
	if err := cat.client.post(ctx, "/api/options", input, &created); err != nil {
		return nil, err
	}
	cat.options.replace(func(o Option) bool { return o.ID == created.ID }, created)
	return &created, nil
}

// UpdateOption updates an option and the cached copy.
func (cat *Catalog) UpdateOption(ctx context.Context, id uint, input OptionInput) (*Option, error) {
	var updated Option
	if err := cat.client.put(ctx, "/api/options/"+strconv.FormatUint(uint64(id), 10), input, &updated); err != nil {
		return nil, err
	}
	cat.options.replace(func(o Option) bool { return o.ID == updated.ID }, updated)
	return &updated, nil
}

// DeleteOption deletes an option and evicts it from the cache.
func (cat *Catalog) DeleteOption(ctx context.Context, id uint) error {
	if err := cat.client.delete(ctx, "/api/options/"+strconv.FormatUint(uint64(id), 10)); err != nil {
		return err
	}
	cat.options.remove(func(o Option) bool { return o.ID == id })
	return nil
}

// LoadUsers fetches one page of users into the cache. Admin only.
func (cat *Catalog) LoadUsers(ctx context.Context, page, limit int) (*UserPage, error) {
	query := url.Values{}
	if page > 0 {
		query.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	cat.users.beginLoad()
	var userPage UserPage
	err := cat.client.get(ctx, "/api/users", query, &userPage)
	cat.users.finishLoad(userPage.Items, err)
	if err != nil {
		return nil, err
	}

	cat.mu.Lock()
	cat.userMeta = userPage
	cat.mu.Unlock()
	return &userPage, nil
}

// UserInput is the user create/update payload.
type UserInput struct {
	Name     string `json:"name"`
	Surname  string `json:"surname"`
	Phone    string `json:"phone"`
	Note     string `json:"izoh,omitempty"`
	IsActive *bool  `json:"is_active,omitempty"`
}

// CreateUser creates a user and adds it to the cache. Admin only.
func (cat *Catalog) CreateUser(ctx context.Context, input UserInput) (*User, error) {
	var created User
	if err := cat.client.post(ctx, "/api/users", input, &created); err != nil {
		return nil, err
	}
	cat.users.replace(func(u User) bool { return u.ID == created.ID }, created)
	return &created, nil
}

// UpdateUser updates a user and the cached copy. Admin only.
func (cat *Catalog) UpdateUser(ctx context.Context, id uint, input UserInput) (*User, error) {
	var updated User
	if err := cat.client.put(ctx, "/api/users/"+strconv.FormatUint(uint64(id), 10), input, &updated); err != nil {
		return nil, err
	}
	cat.users.replace(func(u User) bool { return u.ID == updated.ID }, updated)
	return &updated, nil
}

// DeleteUser deletes a user and evicts it from the cache. Admin only.
func (cat *Catalog) DeleteUser(ctx context.Context, id uint) error {
	if err := cat.client.delete(ctx, "/api/users/"+strconv.FormatUint(uint64(id), 10)); err != nil {
		return err
	}
	cat.users.remove(func(u User) bool { return u.ID == id })
	return nil
}
