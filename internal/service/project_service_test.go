package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"ai-studio-go/internal/model"
)

func newTestProjectService() (ProjectService, *fakeProjectRepo, *fakeSourceRepo, *fakeObjectStore) {
	projectRepo := newFakeProjectRepo()
	sourceRepo := newFakeSourceRepo()
	store := newFakeObjectStore()
	return NewProjectService(projectRepo, sourceRepo, store), projectRepo, sourceRepo, store
}

func TestCreateProjectDefaults(t *testing.T) {
	svc, _, _, _ := newTestProjectService()

	project, err := svc.CreateProject(1, "My Assistant", "", "")
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	if project.SystemPrompt != model.DefaultSystemPrompt {
		t.Errorf("systemPrompt = %q, want default", project.SystemPrompt)
	}
	if project.ModelName != model.DefaultModel {
		t.Errorf("modelName = %q, want default", project.ModelName)
	}
	if project.ModelProvider != model.DefaultProvider {
		t.Errorf("modelProvider = %q, want %q", project.ModelProvider, model.DefaultProvider)
	}
}

func TestCreateProjectModelValidation(t *testing.T) {
	svc, _, _, _ := newTestProjectService()

	// 不含 "/" 的模型标识回退到默认模型
	project, err := svc.CreateProject(1, "P", "", "gpt4")
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	if project.ModelName != model.DefaultModel {
		t.Errorf("modelName = %q, want default", project.ModelName)
	}

	project, err = svc.CreateProject(1, "P2", "", "openai/gpt-4o")
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	if project.ModelName != "openai/gpt-4o" {
		t.Errorf("modelName = %q", project.ModelName)
	}
}

func TestCreateProjectValidation(t *testing.T) {
	svc, _, _, _ := newTestProjectService()

	if _, err := svc.CreateProject(1, "  ", "", ""); !errors.Is(err, ErrValidation) {
		t.Errorf("blank name: err = %v, want ErrValidation", err)
	}
	if _, err := svc.CreateProject(1, strings.Repeat("x", model.MaxProjectNameLen+1), "", ""); !errors.Is(err, ErrValidation) {
		t.Errorf("long name: err = %v, want ErrValidation", err)
	}
	if _, err := svc.CreateProject(1, "ok", strings.Repeat("p", model.MaxSystemPromptLen+1), ""); !errors.Is(err, ErrValidation) {
		t.Errorf("long prompt: err = %v, want ErrValidation", err)
	}
}

func TestProjectLimitsCountCharacters(t *testing.T) {
	svc, _, _, _ := newTestProjectService()

	// 100 个汉字按字节算是 300，但字符数正好在上限内
	name := strings.Repeat("名", model.MaxProjectNameLen)
	prompt := strings.Repeat("提", model.MaxSystemPromptLen)
	project, err := svc.CreateProject(1, name, prompt, "")
	if err != nil {
		t.Fatalf("CreateProject with max-length multi-byte fields: %v", err)
	}
	if project.Name != name {
		t.Errorf("name mutated: %q", project.Name)
	}

	// 超出一个字符即拒绝
	if _, err := svc.CreateProject(1, name+"超", "", ""); !errors.Is(err, ErrValidation) {
		t.Errorf("name one char over limit: err = %v, want ErrValidation", err)
	}
	if _, err := svc.CreateProject(1, "ok", prompt+"超", ""); !errors.Is(err, ErrValidation) {
		t.Errorf("prompt one char over limit: err = %v, want ErrValidation", err)
	}
}

func TestGetProjectOwnership(t *testing.T) {
	svc, _, _, _ := newTestProjectService()
	project, err := svc.CreateProject(1, "Mine", "", "")
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}

	if _, err := svc.GetProject(1, project.ID); err != nil {
		t.Fatalf("owner GetProject: %v", err)
	}
	// 他人项目与不存在的项目返回同一个错误
	if _, err := svc.GetProject(2, project.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("foreign owner: err = %v, want ErrNotFound", err)
	}
	if _, err := svc.GetProject(1, 9999); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing project: err = %v, want ErrNotFound", err)
	}
}

func TestUpdateProjectPartialPatch(t *testing.T) {
	svc, _, _, _ := newTestProjectService()
	project, err := svc.CreateProject(1, "Before", "Custom prompt", "openai/gpt-4o")
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}

	newName := "After"
	updated, err := svc.UpdateProject(1, project.ID, ProjectUpdate{Name: &newName})
	if err != nil {
		t.Fatalf("UpdateProject: %v", err)
	}
	if updated.Name != "After" {
		t.Errorf("name = %q", updated.Name)
	}
	// 未提供的字段保持原值
	if updated.SystemPrompt != "Custom prompt" {
		t.Errorf("systemPrompt changed: %q", updated.SystemPrompt)
	}
	if updated.ModelName != "openai/gpt-4o" {
		t.Errorf("modelName changed: %q", updated.ModelName)
	}

	badModel := "no-slash"
	updated, err = svc.UpdateProject(1, project.ID, ProjectUpdate{ModelName: &badModel})
	if err != nil {
		t.Fatalf("UpdateProject: %v", err)
	}
	if updated.ModelName != model.DefaultModel {
		t.Errorf("modelName = %q, want default", updated.ModelName)
	}
}

func TestDeleteProjectCascadesAndCleansStorage(t *testing.T) {
	svc, projectRepo, sourceRepo, store := newTestProjectService()
	project, err := svc.CreateProject(1, "Doomed", "", "")
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}

	src := &model.Source{ProjectID: project.ID, FileName: "a.txt", Content: "a", ObjectName: "sources/1/a.txt"}
	if err := sourceRepo.Create(src); err != nil {
		t.Fatalf("source Create: %v", err)
	}
	store.objects[src.ObjectName] = []byte("a")

	if err := svc.DeleteProject(context.Background(), 1, project.ID); err != nil {
		t.Fatalf("DeleteProject: %v", err)
	}
	if _, ok := projectRepo.projects[project.ID]; ok {
		t.Error("project row still present")
	}
	if _, ok := store.objects[src.ObjectName]; ok {
		t.Error("stored object not removed")
	}

	// 他人删除同一项目表现为不存在
	if err := svc.DeleteProject(context.Background(), 2, project.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestDeleteProjectStorageFailureIsBestEffort(t *testing.T) {
	svc, projectRepo, sourceRepo, store := newTestProjectService()
	project, err := svc.CreateProject(1, "P", "", "")
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	if err := sourceRepo.Create(&model.Source{ProjectID: project.ID, FileName: "a.txt", Content: "a", ObjectName: "sources/x"}); err != nil {
		t.Fatalf("source Create: %v", err)
	}
	store.removeErr = errors.New("minio down")

	// 对象存储清理失败不影响删除结果
	if err := svc.DeleteProject(context.Background(), 1, project.ID); err != nil {
		t.Fatalf("DeleteProject: %v", err)
	}
	if _, ok := projectRepo.projects[project.ID]; ok {
		t.Error("project row still present")
	}
}
