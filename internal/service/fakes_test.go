package service

import (
	"context"
	"errors"
	"io"
	"sort"
	"time"

	"gorm.io/gorm"

	"ai-studio-go/internal/model"
)

// 基于内存 map 的仓储假实现，供各 service 测试复用。

type fakeUserRepo struct {
	users  map[uint]*model.User
	nextID uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uint]*model.User{}, nextID: 1}
}

func (r *fakeUserRepo) Create(user *model.User) error {
	user.ID = r.nextID
	r.nextID++
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) FindByEmail(email string) (*model.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) FindByID(userID uint) (*model.User, error) {
	u, ok := r.users[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *u
	return &copied, nil
}

type fakeProjectRepo struct {
	projects map[uint]*model.Project
	nextID   uint
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{projects: map[uint]*model.Project{}, nextID: 1}
}

func (r *fakeProjectRepo) Create(project *model.Project) error {
	project.ID = r.nextID
	project.CreatedAt = time.Now()
	r.nextID++
	copied := *project
	r.projects[project.ID] = &copied
	return nil
}

func (r *fakeProjectRepo) FindByOwner(ownerID uint) ([]model.Project, error) {
	var out []model.Project
	for _, p := range r.projects {
		if p.OwnerID == ownerID {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeProjectRepo) FindByIDAndOwner(id, ownerID uint) (*model.Project, error) {
	p, ok := r.projects[id]
	if !ok || p.OwnerID != ownerID {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *p
	return &copied, nil
}

func (r *fakeProjectRepo) Update(project *model.Project) error {
	if _, ok := r.projects[project.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	copied := *project
	r.projects[project.ID] = &copied
	return nil
}

func (r *fakeProjectRepo) DeleteCascade(id, ownerID uint) error {
	p, ok := r.projects[id]
	if !ok || p.OwnerID != ownerID {
		return gorm.ErrRecordNotFound
	}
	delete(r.projects, id)
	return nil
}

type fakeSourceRepo struct {
	sources map[uint]*model.Source
	nextID  uint
}

func newFakeSourceRepo() *fakeSourceRepo {
	return &fakeSourceRepo{sources: map[uint]*model.Source{}, nextID: 1}
}

func (r *fakeSourceRepo) Create(source *model.Source) error {
	source.ID = r.nextID
	if source.CreatedAt.IsZero() {
		source.CreatedAt = time.Now()
	}
	r.nextID++
	copied := *source
	r.sources[source.ID] = &copied
	return nil
}

func (r *fakeSourceRepo) byProject(projectID uint) []model.Source {
	var out []model.Source
	for _, s := range r.sources {
		if s.ProjectID == projectID {
			out = append(out, *s)
		}
	}
	return out
}

func (r *fakeSourceRepo) FindByProject(projectID uint) ([]model.Source, error) {
	out := r.byProject(projectID)
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *fakeSourceRepo) FindRecentByProject(projectID uint, limit int) ([]model.Source, error) {
	out := r.byProject(projectID)
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeSourceRepo) FindByIDAndProject(id, projectID uint) (*model.Source, error) {
	s, ok := r.sources[id]
	if !ok || s.ProjectID != projectID {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *s
	return &copied, nil
}

func (r *fakeSourceRepo) DeleteByIDAndProject(id, projectID uint) error {
	s, ok := r.sources[id]
	if !ok || s.ProjectID != projectID {
		return gorm.ErrRecordNotFound
	}
	delete(r.sources, id)
	return nil
}

func (r *fakeSourceRepo) FindObjectNamesByProject(projectID uint) ([]string, error) {
	var names []string
	for _, s := range r.byProject(projectID) {
		names = append(names, s.ObjectName)
	}
	return names, nil
}

type fakeMessageRepo struct {
	messages []model.Message
	nextID   uint
	failNext bool
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{nextID: 1}
}

func (r *fakeMessageRepo) Create(message *model.Message) error {
	if r.failNext {
		r.failNext = false
		return errors.New("db write failed")
	}
	message.ID = r.nextID
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now()
	}
	r.nextID++
	r.messages = append(r.messages, *message)
	return nil
}

func (r *fakeMessageRepo) FindByProject(projectID uint) ([]model.Message, error) {
	var out []model.Message
	for _, m := range r.messages {
		if m.ProjectID == projectID {
			out = append(out, m)
		}
	}
	return out, nil
}

type fakeBlacklist struct {
	entries map[string]bool
}

func newFakeBlacklist() *fakeBlacklist {
	return &fakeBlacklist{entries: map[string]bool{}}
}

func (b *fakeBlacklist) Add(ctx context.Context, tokenString string, expiration time.Duration) error {
	if expiration <= 0 {
		return nil
	}
	b.entries[tokenString] = true
	return nil
}

func (b *fakeBlacklist) Contains(ctx context.Context, tokenString string) (bool, error) {
	return b.entries[tokenString], nil
}

type fakeObjectStore struct {
	objects   map[string][]byte
	putErr    error
	removeErr error
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{objects: map[string][]byte{}}
}

func (s *fakeObjectStore) Put(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) error {
	if s.putErr != nil {
		return s.putErr
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	s.objects[objectName] = data
	return nil
}

func (s *fakeObjectStore) Remove(ctx context.Context, objectName string) error {
	if s.removeErr != nil {
		return s.removeErr
	}
	delete(s.objects, objectName)
	return nil
}

func (s *fakeObjectStore) PresignedGetURL(ctx context.Context, objectName string, expiry time.Duration) (string, error) {
	if _, ok := s.objects[objectName]; !ok {
		return "", errors.New("object not found")
	}
	return "https://minio.local/" + objectName + "?signed=1", nil
}
