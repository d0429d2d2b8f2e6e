package store

import (
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/hsmith-dev/canvas-sis-prep/internal/models"
	appErrors "github.com/hsmith-dev/canvas-sis-prep/pkg/errors"
)

// Store holds the whole dataset in memory: five keyed collections, the
// enrollment role map and the ordered section list. Every mutation is
// atomic under the lock and enforces key uniqueness and the in-use guards;
// persistence is the caller's responsibility.
type Store struct {
	mu sync.RWMutex

	people          map[string]models.Person
	courses         map[string]models.Course
	terms           map[string]models.Term
	accounts        map[string]models.Account
	programAreas    map[string]models.ProgramArea
	enrollmentRoles map[string]string
	sections        []models.Section

	defaultRoles map[string]string
}

// New creates an empty store seeded with the given default enrollment
// roles. The seed is retained so Reset can reinstall it.
func New(defaultRoles map[string]string) *Store {
	if defaultRoles == nil {
		defaultRoles = models.DefaultEnrollmentRoles()
	}
	s := &Store{defaultRoles: defaultRoles}
	s.reset()
	return s
}

func (s *Store) reset() {
	s.people = make(map[string]models.Person)
	s.courses = make(map[string]models.Course)
	s.terms = make(map[string]models.Term)
	s.accounts = make(map[string]models.Account)
	s.programAreas = make(map[string]models.ProgramArea)
	s.enrollmentRoles = copyRoles(s.defaultRoles)
	s.sections = nil
}

// Reset empties every collection and reinstalls the default role seed.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
}

// DefaultRoles returns a copy of the injected role seed.
func (s *Store) DefaultRoles() map[string]string {
	return copyRoles(s.defaultRoles)
}

func copyRoles(src map[string]string) map[string]string {
	dst := make(map[string]string, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

// --- People ---

// AddPerson inserts a person keyed by user id.
func (s *Store) AddPerson(p models.Person) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.people[p.UserID]; ok {
		return appErrors.Clone(appErrors.ErrDuplicateKey, "a person with this user ID already exists")
	}
	s.people[p.UserID] = p
	return nil
}

// EditPerson replaces the person stored under oldKey, allowing the key to
// change when the new key is free.
func (s *Store) EditPerson(oldKey string, p models.Person) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.people[oldKey]; !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "person not found")
	}
	if p.UserID != oldKey {
		if _, ok := s.people[p.UserID]; ok {
			return appErrors.Clone(appErrors.ErrDuplicateKey, "a person with this user ID already exists")
		}
		delete(s.people, oldKey)
	}
	s.people[p.UserID] = p
	return nil
}

// DeletePerson removes a person unless any section roster references them.
func (s *Store) DeletePerson(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.people[key]; !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "person not found")
	}
	for i := range s.sections {
		if s.sections[i].HasEnrollment(key) {
			return appErrors.Clone(appErrors.ErrEntityInUse, "cannot delete this person, they are enrolled in a section")
		}
	}
	delete(s.people, key)
	return nil
}

// Person looks up a single person.
func (s *Store) Person(key string) (models.Person, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.people[key]
	return p, ok
}

// People returns all people sorted by user id.
func (s *Store) People() []models.Person {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.people))
	for k := range s.people {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]models.Person, 0, len(keys))
	for _, k := range keys {
		out = append(out, s.people[k])
	}
	return out
}

// --- Courses ---

// AddCourse inserts a course keyed by course id portion.
func (s *Store) AddCourse(c models.Course) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.courses[c.CourseIDPortion]; ok {
		return appErrors.Clone(appErrors.ErrDuplicateKey, "a course with this ID portion already exists")
	}
	s.courses[c.CourseIDPortion] = c
	return nil
}

// EditCourse replaces the course stored under oldKey.
func (s *Store) EditCourse(oldKey string, c models.Course) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.courses[oldKey]; !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "course not found")
	}
	if c.CourseIDPortion != oldKey {
		if _, ok := s.courses[c.CourseIDPortion]; ok {
			return appErrors.Clone(appErrors.ErrDuplicateKey, "a course with this ID portion already exists")
		}
		delete(s.courses, oldKey)
	}
	s.courses[c.CourseIDPortion] = c
	return nil
}

// DeleteCourse removes a course unless a section references it.
func (s *Store) DeleteCourse(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.courses[key]; !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "course not found")
	}
	for i := range s.sections {
		if s.sections[i].CourseIDPortion == key {
			return appErrors.Clone(appErrors.ErrEntityInUse, "cannot delete this course, it is used by a section")
		}
	}
	delete(s.courses, key)
	return nil
}

// Course looks up a single course.
func (s *Store) Course(key string) (models.Course, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.courses[key]
	return c, ok
}

// Courses returns all courses sorted by course id portion.
func (s *Store) Courses() []models.Course {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.courses))
	for k := range s.courses {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]models.Course, 0, len(keys))
	for _, k := range keys {
		out = append(out, s.courses[k])
	}
	return out
}

// --- Terms ---

// AddTerm inserts a term keyed by display name.
func (s *Store) AddTerm(t models.Term) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.terms[t.Name]; ok {
		return appErrors.Clone(appErrors.ErrDuplicateKey, "a term with this name already exists")
	}
	s.terms[t.Name] = t
	return nil
}

// EditTerm replaces the term stored under oldKey. A rename cascades to
// every section referencing the old name within the same lock.
func (s *Store) EditTerm(oldKey string, t models.Term) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.terms[oldKey]; !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "term not found")
	}
	if t.Name != oldKey {
		if _, ok := s.terms[t.Name]; ok {
			return appErrors.Clone(appErrors.ErrDuplicateKey, "a term with this name already exists")
		}
		for i := range s.sections {
			if s.sections[i].TermName == oldKey {
				s.sections[i].TermName = t.Name
			}
		}
		delete(s.terms, oldKey)
	}
	s.terms[t.Name] = t
	return nil
}

// DeleteTerm removes a term unless a section references it.
func (s *Store) DeleteTerm(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.terms[key]; !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "term not found")
	}
	for i := range s.sections {
		if s.sections[i].TermName == key {
			return appErrors.Clone(appErrors.ErrEntityInUse, "cannot delete this term, it is used by a section")
		}
	}
	delete(s.terms, key)
	return nil
}

// Term looks up a single term by display name.
func (s *Store) Term(key string) (models.Term, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.terms[key]
	return t, ok
}

// Terms returns all terms sorted by display name.
func (s *Store) Terms() []models.Term {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.terms))
	for k := range s.terms {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]models.Term, 0, len(keys))
	for _, k := range keys {
		out = append(out, s.terms[k])
	}
	return out
}

// --- Accounts ---

// AddAccount inserts an account keyed by account id.
func (s *Store) AddAccount(a models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[a.AccountID]; ok {
		return appErrors.Clone(appErrors.ErrDuplicateKey, "an account with this ID already exists")
	}
	s.accounts[a.AccountID] = a
	return nil
}

// EditAccount replaces the account stored under oldKey.
func (s *Store) EditAccount(oldKey string, a models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[oldKey]; !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "account not found")
	}
	if a.AccountID != oldKey {
		if _, ok := s.accounts[a.AccountID]; ok {
			return appErrors.Clone(appErrors.ErrDuplicateKey, "an account with this ID already exists")
		}
		delete(s.accounts, oldKey)
	}
	s.accounts[a.AccountID] = a
	return nil
}

// DeleteAccount removes an account unless a section references it.
func (s *Store) DeleteAccount(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[key]; !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "account not found")
	}
	for i := range s.sections {
		if s.sections[i].AccountID == key {
			return appErrors.Clone(appErrors.ErrEntityInUse, "cannot delete this account, it is used by a section")
		}
	}
	delete(s.accounts, key)
	return nil
}

// Account looks up a single account.
func (s *Store) Account(key string) (models.Account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[key]
	return a, ok
}

// Accounts returns all accounts sorted by account id.
func (s *Store) Accounts() []models.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.accounts))
	for k := range s.accounts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]models.Account, 0, len(keys))
	for _, k := range keys {
		out = append(out, s.accounts[k])
	}
	return out
}

// --- Program areas ---

// AddProgramArea inserts a program area keyed by name.
func (s *Store) AddProgramArea(p models.ProgramArea) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.programAreas[p.Name]; ok {
		return appErrors.Clone(appErrors.ErrDuplicateKey, "a program area with this name already exists")
	}
	s.programAreas[p.Name] = p
	return nil
}

// EditProgramArea replaces the program area stored under oldKey. A rename
// cascades to every person and course referencing the old name.
func (s *Store) EditProgramArea(oldKey string, p models.ProgramArea) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.programAreas[oldKey]; !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "program area not found")
	}
	if p.Name != oldKey {
		if _, ok := s.programAreas[p.Name]; ok {
			return appErrors.Clone(appErrors.ErrDuplicateKey, "a program area with this name already exists")
		}
		for key, person := range s.people {
			if person.ProgramAreaName == oldKey {
				person.ProgramAreaName = p.Name
				s.people[key] = person
			}
		}
		for key, course := range s.courses {
			if course.ProgramAreaName == oldKey {
				course.ProgramAreaName = p.Name
				s.courses[key] = course
			}
		}
		delete(s.programAreas, oldKey)
	}
	s.programAreas[p.Name] = p
	return nil
}

// DeleteProgramArea removes a program area unless a person or course
// references it.
func (s *Store) DeleteProgramArea(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.programAreas[key]; !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "program area not found")
	}
	for _, person := range s.people {
		if person.ProgramAreaName == key {
			return appErrors.Clone(appErrors.ErrEntityInUse, "cannot delete this program area, it is assigned to a person")
		}
	}
	for _, course := range s.courses {
		if course.ProgramAreaName == key {
			return appErrors.Clone(appErrors.ErrEntityInUse, "cannot delete this program area, it is assigned to a course")
		}
	}
	delete(s.programAreas, key)
	return nil
}

// ProgramArea looks up a single program area.
func (s *Store) ProgramArea(key string) (models.ProgramArea, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.programAreas[key]
	return p, ok
}

// ProgramAreas returns all program areas sorted by name.
func (s *Store) ProgramAreas() []models.ProgramArea {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.programAreas))
	for k := range s.programAreas {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]models.ProgramArea, 0, len(keys))
	for _, k := range keys {
		out = append(out, s.programAreas[k])
	}
	return out
}

// --- Sections and enrollments ---

// AddSection appends a section to the ordered list, assigning a stable ID
// when the caller did not provide one.
func (s *Store) AddSection(sec models.Section) models.Section {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sec.ID == "" {
		sec.ID = uuid.NewString()
	}
	if sec.Status == "" {
		sec.Status = string(models.SectionStatusActive)
	}
	if sec.Enrollments == nil {
		sec.Enrollments = []models.Enrollment{}
	}
	s.sections = append(s.sections, sec)
	return sec
}

// EditSection updates the mutable fields of the identified section. The
// roster and ID are untouched.
func (s *Store) EditSection(id string, sec models.Section) (models.Section, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.sections {
		if s.sections[i].ID != id {
			continue
		}
		s.sections[i].CourseIDPortion = sec.CourseIDPortion
		s.sections[i].TermName = sec.TermName
		s.sections[i].AccountID = sec.AccountID
		s.sections[i].SectionNumber = sec.SectionNumber
		s.sections[i].Status = sec.Status
		s.sections[i].StartDate = sec.StartDate
		s.sections[i].EndDate = sec.EndDate
		return s.sections[i], nil
	}
	return models.Section{}, appErrors.Clone(appErrors.ErrNotFound, "section not found")
}

// DeleteSections removes every section whose ID is in the given set,
// discarding their enrollments as a unit, and returns the removed count.
func (s *Store) DeleteSections(ids ...string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	idSet := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		idSet[id] = struct{}{}
	}
	kept := s.sections[:0]
	removed := 0
	for _, sec := range s.sections {
		if _, ok := idSet[sec.ID]; ok {
			removed++
			continue
		}
		kept = append(kept, sec)
	}
	s.sections = kept
	return removed
}

// Section looks up a single section by ID.
func (s *Store) Section(id string) (models.Section, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.sections {
		if s.sections[i].ID == id {
			return cloneSection(s.sections[i]), true
		}
	}
	return models.Section{}, false
}

// Sections returns the section list in insertion order.
func (s *Store) Sections() []models.Section {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Section, 0, len(s.sections))
	for i := range s.sections {
		out = append(out, cloneSection(s.sections[i]))
	}
	return out
}

// AddEnrollment appends an enrollment to the identified section's roster,
// rejecting a duplicate user id.
func (s *Store) AddEnrollment(sectionID string, e models.Enrollment) (models.Enrollment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.sections {
		if s.sections[i].ID != sectionID {
			continue
		}
		if s.sections[i].HasEnrollment(e.UserID) {
			return models.Enrollment{}, appErrors.Clone(appErrors.ErrDuplicateEnrollment, "")
		}
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		if e.Status == "" {
			e.Status = string(models.EnrollmentStatusActive)
		}
		s.sections[i].Enrollments = append(s.sections[i].Enrollments, e)
		return e, nil
	}
	return models.Enrollment{}, appErrors.Clone(appErrors.ErrNotFound, "section not found")
}

// DeleteEnrollments removes the identified enrollments from a section and
// returns the removed count.
func (s *Store) DeleteEnrollments(sectionID string, ids ...string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.sections {
		if s.sections[i].ID != sectionID {
			continue
		}
		idSet := make(map[string]struct{}, len(ids))
		for _, id := range ids {
			idSet[id] = struct{}{}
		}
		kept := s.sections[i].Enrollments[:0]
		removed := 0
		for _, e := range s.sections[i].Enrollments {
			if _, ok := idSet[e.ID]; ok {
				removed++
				continue
			}
			kept = append(kept, e)
		}
		s.sections[i].Enrollments = kept
		return removed, nil
	}
	return 0, appErrors.Clone(appErrors.ErrNotFound, "section not found")
}

func cloneSection(sec models.Section) models.Section {
	out := sec
	out.Enrollments = make([]models.Enrollment, len(sec.Enrollments))
	copy(out.Enrollments, sec.Enrollments)
	return out
}

// --- Enrollment roles ---

// SetEnrollmentRole upserts a display-name to Canvas-role mapping and
// reports whether the entry was newly created.
func (s *Store) SetEnrollmentRole(displayName, canvasRole string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, existed := s.enrollmentRoles[displayName]
	s.enrollmentRoles[displayName] = canvasRole
	return !existed
}

// DeleteEnrollmentRole removes a role mapping.
func (s *Store) DeleteEnrollmentRole(displayName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.enrollmentRoles[displayName]; !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "role not found")
	}
	delete(s.enrollmentRoles, displayName)
	return nil
}

// EnrollmentRoles returns a copy of the role map.
func (s *Store) EnrollmentRoles() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyRoles(s.enrollmentRoles)
}

// ResolveRole translates a display role through the map, passing the input
// through unchanged when no mapping exists.
func (s *Store) ResolveRole(displayName string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if canvasRole, ok := s.enrollmentRoles[displayName]; ok {
		return canvasRole
	}
	return displayName
}

// HasEnrollmentRole reports whether a display name is mapped.
func (s *Store) HasEnrollmentRole(displayName string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.enrollmentRoles[displayName]
	return ok
}

// Counts reports collection sizes, used by the metrics gauges.
func (s *Store) Counts() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	enrollments := 0
	for i := range s.sections {
		enrollments += len(s.sections[i].Enrollments)
	}
	return map[string]int{
		"people":        len(s.people),
		"courses":       len(s.courses),
		"terms":         len(s.terms),
		"accounts":      len(s.accounts),
		"program_areas": len(s.programAreas),
		"sections":      len(s.sections),
		"enrollments":   enrollments,
	}
}
