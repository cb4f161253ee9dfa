package service

import (
	"context"
	"regexp"
	"testing"

	"go.uber.org/zap"

	"campus-complaints/backend/config"
	"campus-complaints/backend/internal/dto"
	"campus-complaints/backend/internal/model"
	"campus-complaints/backend/internal/repository"
	pkgerrors "campus-complaints/backend/pkg/errors"
	"campus-complaints/backend/pkg/mailer"
)

// ── 测试辅助 ──

type complaintTestEnv struct {
	svc           ComplaintService
	userRepo      *mockUserRepo
	complaintRepo *mockComplaintRepo
	notifRepo     *mockNotificationRepo
	repo          *repository.Repository
	cfg           *config.Config
}

func setupComplaintEnv(reopenEnabled bool) *complaintTestEnv {
	cfg := &config.Config{
		Feature: config.FeatureConfig{ReopenEnabled: reopenEnabled},
	}

	userRepo := newMockUserRepo()
	complaintRepo := newMockComplaintRepo(userRepo)
	notifRepo := newMockNotificationRepo()
	categoryRepo := newMockCategoryRepo()
	categoryRepo.categories["cat-network"] = &model.Category{CategoryID: "cat-network", Name: "网络"}

	repo := &repository.Repository{
		User:         userRepo,
		Category:     categoryRepo,
		Complaint:    complaintRepo,
		Feedback:     newMockFeedbackRepo(),
		Notification: notifRepo,
	}

	logger := zap.NewNop()
	m := mailer.NewMailer(&config.MailConfig{}, logger)
	svc := NewComplaintService(cfg, repo, m, logger)

	return &complaintTestEnv{
		svc:           svc,
		userRepo:      userRepo,
		complaintRepo: complaintRepo,
		notifRepo:     notifRepo,
		repo:          repo,
		cfg:           cfg,
	}
}

func seedUser(repo *mockUserRepo, id, name, role string) *model.User {
	user := &model.User{
		UserID:   id,
		Name:     name,
		Username: id,
		Email:    id + "@campus.edu",
		Role:     role,
	}
	repo.put(user)
	return user
}

func createComplaint(t *testing.T, env *complaintTestEnv, creatorID string) *dto.ComplaintDetailResponse {
	t.Helper()
	result, err := env.svc.Create(context.Background(), &dto.CreateComplaintRequest{
		Title:       "宿舍网络故障",
		Description: "三号楼网络连续两天无法使用",
		CategoryID:  "cat-network",
		Priority:    model.PriorityHigh,
	}, nil, creatorID, model.RoleStudent)
	if err != nil {
		t.Fatalf("创建投诉应成功: %v", err)
	}
	return result
}

// ── 创建投诉 ──

func TestCreateComplaint_Success(t *testing.T) {
	env := setupComplaintEnv(false)
	seedUser(env.userRepo, "alice", "Alice", model.RoleStudent)

	result := createComplaint(t, env, "alice")

	if result.Status != model.StatusPending {
		t.Errorf("期望初始状态 PENDING，实际=%s", result.Status)
	}
	matched, _ := regexp.MatchString(`^CMP-\d{8}-\d{6}$`, result.ComplaintNo)
	if !matched {
		t.Errorf("编号格式错误: %s", result.ComplaintNo)
	}
	if result.Version != 1 {
		t.Errorf("期望初始版本 1，实际=%d", result.Version)
	}

	history, err := env.svc.History(context.Background(), result.ComplaintNo, "alice", model.RoleStudent)
	if err != nil {
		t.Fatalf("查询历史应成功: %v", err)
	}
	if len(history) != 1 || history[0].Kind != model.HistoryKindCreated {
		t.Errorf("期望 1 条 created 历史，实际=%d 条", len(history))
	}
}

func TestCreateComplaint_SequentialNumbers(t *testing.T) {
	env := setupComplaintEnv(false)
	seedUser(env.userRepo, "alice", "Alice", model.RoleStudent)

	first := createComplaint(t, env, "alice")
	second := createComplaint(t, env, "alice")

	if first.ComplaintNo == second.ComplaintNo {
		t.Errorf("同日创建的两条投诉编号不应相同: %s", first.ComplaintNo)
	}
}

func TestCreateComplaint_NonStudent(t *testing.T) {
	env := setupComplaintEnv(false)
	seedUser(env.userRepo, "bob", "Bob", model.RoleFaculty)

	_, err := env.svc.Create(context.Background(), &dto.CreateComplaintRequest{
		Title:       "教职工投诉测试",
		Description: "教职工不应能创建投诉",
		CategoryID:  "cat-network",
	}, nil, "bob", model.RoleFaculty)

	if !pkgerrors.IsPermission(err) {
		t.Errorf("期望权限错误，实际: %v", err)
	}
}

func TestCreateComplaint_UnknownCategory(t *testing.T) {
	env := setupComplaintEnv(false)
	seedUser(env.userRepo, "alice", "Alice", model.RoleStudent)

	_, err := env.svc.Create(context.Background(), &dto.CreateComplaintRequest{
		Title:       "分类不存在的投诉",
		Description: "引用了不存在的分类",
		CategoryID:  "cat-missing",
	}, nil, "alice", model.RoleStudent)

	if !pkgerrors.IsValidation(err) {
		t.Errorf("期望校验错误，实际: %v", err)
	}
}

// ── 指派 ──

func TestAssign_PendingMovesToInProgress(t *testing.T) {
	env := setupComplaintEnv(false)
	seedUser(env.userRepo, "alice", "Alice", model.RoleStudent)
	seedUser(env.userRepo, "bob", "Bob", model.RoleFaculty)
	seedUser(env.userRepo, "admin", "Admin", model.RoleAdmin)
	created := createComplaint(t, env, "alice")

	result, err := env.svc.Assign(context.Background(), created.ComplaintNo,
		&dto.AssignComplaintRequest{AssigneeID: "bob"}, "admin", model.RoleAdmin)
	if err != nil {
		t.Fatalf("指派应成功: %v", err)
	}
	if result.Status != model.StatusInProgress {
		t.Errorf("指派后待处理投诉应进入 IN_PROGRESS，实际=%s", result.Status)
	}
	if result.AssigneeName != "Bob" {
		t.Errorf("期望受理人 Bob，实际=%s", result.AssigneeName)
	}
}

func TestAssign_NonAdmin(t *testing.T) {
	env := setupComplaintEnv(false)
	seedUser(env.userRepo, "alice", "Alice", model.RoleStudent)
	seedUser(env.userRepo, "bob", "Bob", model.RoleFaculty)
	created := createComplaint(t, env, "alice")

	_, err := env.svc.Assign(context.Background(), created.ComplaintNo,
		&dto.AssignComplaintRequest{AssigneeID: "bob"}, "bob", model.RoleFaculty)

	if !pkgerrors.IsPermission(err) {
		t.Errorf("期望权限错误，实际: %v", err)
	}
}

func TestAssign_NonFacultyAssignee(t *testing.T) {
	env := setupComplaintEnv(false)
	seedUser(env.userRepo, "alice", "Alice", model.RoleStudent)
	seedUser(env.userRepo, "carol", "Carol", model.RoleStudent)
	seedUser(env.userRepo, "admin", "Admin", model.RoleAdmin)
	created := createComplaint(t, env, "alice")

	_, err := env.svc.Assign(context.Background(), created.ComplaintNo,
		&dto.AssignComplaintRequest{AssigneeID: "carol"}, "admin", model.RoleAdmin)

	if !pkgerrors.IsValidation(err) {
		t.Errorf("期望校验错误，实际: %v", err)
	}
}

// ── 状态机 ──

// advance 测试辅助：把投诉推进到指定状态
func advance(t *testing.T, env *complaintTestEnv, complaintNo string, steps ...string) *dto.ComplaintDetailResponse {
	t.Helper()
	var result *dto.ComplaintDetailResponse
	for _, step := range steps {
		detail, err := env.svc.Get(context.Background(), complaintNo, "admin", model.RoleAdmin)
		if err != nil {
			t.Fatalf("查询投诉应成功: %v", err)
		}
		result, err = env.svc.UpdateStatus(context.Background(), complaintNo, &dto.UpdateStatusRequest{
			Status:  step,
			Remarks: "处理备注",
			Version: detail.Version,
		}, "admin", model.RoleAdmin)
		if err != nil {
			t.Fatalf("推进到 %s 应成功: %v", step, err)
		}
	}
	return result
}

func TestUpdateStatus_NoSkippingStates(t *testing.T) {
	env := setupComplaintEnv(false)
	seedUser(env.userRepo, "alice", "Alice", model.RoleStudent)
	seedUser(env.userRepo, "admin", "Admin", model.RoleAdmin)
	created := createComplaint(t, env, "alice")

	// PENDING 直接到 RESOLVED：不允许跳过 IN_PROGRESS
	_, err := env.svc.UpdateStatus(context.Background(), created.ComplaintNo, &dto.UpdateStatusRequest{
		Status:  model.StatusResolved,
		Remarks: "尝试跳状态",
		Version: created.Version,
	}, "admin", model.RoleAdmin)

	if !pkgerrors.IsState(err) {
		t.Errorf("期望状态错误，实际: %v", err)
	}
}

func TestUpdateStatus_FacultyCannotClose(t *testing.T) {
	env := setupComplaintEnv(false)
	seedUser(env.userRepo, "alice", "Alice", model.RoleStudent)
	seedUser(env.userRepo, "bob", "Bob", model.RoleFaculty)
	seedUser(env.userRepo, "admin", "Admin", model.RoleAdmin)
	created := createComplaint(t, env, "alice")

	if _, err := env.svc.Assign(context.Background(), created.ComplaintNo,
		&dto.AssignComplaintRequest{AssigneeID: "bob"}, "admin", model.RoleAdmin); err != nil {
		t.Fatalf("指派应成功: %v", err)
	}
	advance(t, env, created.ComplaintNo, model.StatusResolved)

	detail, _ := env.svc.Get(context.Background(), created.ComplaintNo, "admin", model.RoleAdmin)
	_, err := env.svc.UpdateStatus(context.Background(), created.ComplaintNo, &dto.UpdateStatusRequest{
		Status:  model.StatusClosed,
		Version: detail.Version,
	}, "bob", model.RoleFaculty)

	// 教职工关闭是权限错误，而非状态错误
	if !pkgerrors.IsPermission(err) {
		t.Errorf("期望权限错误，实际: %v", err)
	}
}

func TestUpdateStatus_StudentForbidden(t *testing.T) {
	env := setupComplaintEnv(false)
	seedUser(env.userRepo, "alice", "Alice", model.RoleStudent)
	created := createComplaint(t, env, "alice")

	_, err := env.svc.UpdateStatus(context.Background(), created.ComplaintNo, &dto.UpdateStatusRequest{
		Status:  model.StatusInProgress,
		Version: created.Version,
	}, "alice", model.RoleStudent)

	if !pkgerrors.IsPermission(err) {
		t.Errorf("期望权限错误，实际: %v", err)
	}
}

func TestUpdateStatus_NonAssigneeFaculty(t *testing.T) {
	env := setupComplaintEnv(false)
	seedUser(env.userRepo, "alice", "Alice", model.RoleStudent)
	seedUser(env.userRepo, "bob", "Bob", model.RoleFaculty)
	seedUser(env.userRepo, "dave", "Dave", model.RoleFaculty)
	seedUser(env.userRepo, "admin", "Admin", model.RoleAdmin)
	created := createComplaint(t, env, "alice")

	if _, err := env.svc.Assign(context.Background(), created.ComplaintNo,
		&dto.AssignComplaintRequest{AssigneeID: "bob"}, "admin", model.RoleAdmin); err != nil {
		t.Fatalf("指派应成功: %v", err)
	}

	detail, _ := env.svc.Get(context.Background(), created.ComplaintNo, "admin", model.RoleAdmin)
	_, err := env.svc.UpdateStatus(context.Background(), created.ComplaintNo, &dto.UpdateStatusRequest{
		Status:  model.StatusResolved,
		Remarks: "他人代办",
		Version: detail.Version,
	}, "dave", model.RoleFaculty)

	if !pkgerrors.IsPermission(err) {
		t.Errorf("非受理教职工更新状态应为权限错误，实际: %v", err)
	}
}

func TestUpdateStatus_ResolvedRequiresRemark(t *testing.T) {
	env := setupComplaintEnv(false)
	seedUser(env.userRepo, "alice", "Alice", model.RoleStudent)
	seedUser(env.userRepo, "admin", "Admin", model.RoleAdmin)
	created := createComplaint(t, env, "alice")
	advance(t, env, created.ComplaintNo, model.StatusInProgress)

	detail, _ := env.svc.Get(context.Background(), created.ComplaintNo, "admin", model.RoleAdmin)
	_, err := env.svc.UpdateStatus(context.Background(), created.ComplaintNo, &dto.UpdateStatusRequest{
		Status:  model.StatusResolved,
		Version: detail.Version,
	}, "admin", model.RoleAdmin)

	if !pkgerrors.IsValidation(err) {
		t.Errorf("标记已解决缺少备注应为校验错误，实际: %v", err)
	}
}

func TestUpdateStatus_VersionConflict(t *testing.T) {
	env := setupComplaintEnv(false)
	seedUser(env.userRepo, "alice", "Alice", model.RoleStudent)
	seedUser(env.userRepo, "admin", "Admin", model.RoleAdmin)
	created := createComplaint(t, env, "alice")

	// 第一次更新成功，版本推进
	advance(t, env, created.ComplaintNo, model.StatusInProgress)

	// 携带旧版本再次提交：乐观锁冲突
	_, err := env.svc.UpdateStatus(context.Background(), created.ComplaintNo, &dto.UpdateStatusRequest{
		Status:  model.StatusResolved,
		Remarks: "基于过期版本的更新",
		Version: created.Version,
	}, "admin", model.RoleAdmin)

	if !pkgerrors.IsConflict(err) {
		t.Errorf("期望冲突错误，实际: %v", err)
	}
}

func TestUpdateStatus_SetsResolvedAt(t *testing.T) {
	env := setupComplaintEnv(false)
	seedUser(env.userRepo, "alice", "Alice", model.RoleStudent)
	seedUser(env.userRepo, "admin", "Admin", model.RoleAdmin)
	created := createComplaint(t, env, "alice")

	result := advance(t, env, created.ComplaintNo, model.StatusInProgress, model.StatusResolved)

	if result.ResolvedAt == "" {
		t.Error("标记已解决后 resolved_at 应有值")
	}
}

// ── 重新打开 ──

func TestReopen_DisabledByDefault(t *testing.T) {
	env := setupComplaintEnv(false)
	seedUser(env.userRepo, "alice", "Alice", model.RoleStudent)
	seedUser(env.userRepo, "admin", "Admin", model.RoleAdmin)
	created := createComplaint(t, env, "alice")
	advance(t, env, created.ComplaintNo, model.StatusInProgress, model.StatusResolved)

	detail, _ := env.svc.Get(context.Background(), created.ComplaintNo, "admin", model.RoleAdmin)
	_, err := env.svc.Reopen(context.Background(), created.ComplaintNo, &dto.ReopenComplaintRequest{
		Version: detail.Version,
	}, "admin", model.RoleAdmin)

	if !pkgerrors.IsState(err) {
		t.Errorf("功能关闭时重开应为状态错误，实际: %v", err)
	}
}

func TestReopen_Enabled(t *testing.T) {
	env := setupComplaintEnv(true)
	seedUser(env.userRepo, "alice", "Alice", model.RoleStudent)
	seedUser(env.userRepo, "admin", "Admin", model.RoleAdmin)
	created := createComplaint(t, env, "alice")
	advance(t, env, created.ComplaintNo, model.StatusInProgress, model.StatusResolved)

	detail, _ := env.svc.Get(context.Background(), created.ComplaintNo, "admin", model.RoleAdmin)
	result, err := env.svc.Reopen(context.Background(), created.ComplaintNo, &dto.ReopenComplaintRequest{
		Remarks: "问题复现",
		Version: detail.Version,
	}, "alice", model.RoleStudent)
	if err != nil {
		t.Fatalf("重开应成功: %v", err)
	}

	if result.Status != model.StatusPending {
		t.Errorf("重开后状态应回到 PENDING，实际=%s", result.Status)
	}
	if result.ResolvedAt != "" {
		t.Error("重开后 resolved_at 应清空")
	}

	history, _ := env.svc.History(context.Background(), created.ComplaintNo, "admin", model.RoleAdmin)
	last := history[len(history)-1]
	if last.Kind != model.HistoryKindReopened {
		t.Errorf("重开应记录独立历史类型 reopened，实际=%s", last.Kind)
	}
}

func TestReopen_OnlyFromResolvedOrClosed(t *testing.T) {
	env := setupComplaintEnv(true)
	seedUser(env.userRepo, "alice", "Alice", model.RoleStudent)
	created := createComplaint(t, env, "alice")

	_, err := env.svc.Reopen(context.Background(), created.ComplaintNo, &dto.ReopenComplaintRequest{
		Version: created.Version,
	}, "alice", model.RoleStudent)

	if !pkgerrors.IsState(err) {
		t.Errorf("PENDING 状态重开应为状态错误，实际: %v", err)
	}
}

// ── 查询范围 ──

func TestList_RoleScoping(t *testing.T) {
	env := setupComplaintEnv(false)
	seedUser(env.userRepo, "alice", "Alice", model.RoleStudent)
	seedUser(env.userRepo, "carol", "Carol", model.RoleStudent)
	seedUser(env.userRepo, "bob", "Bob", model.RoleFaculty)
	seedUser(env.userRepo, "admin", "Admin", model.RoleAdmin)

	aliceComplaint := createComplaint(t, env, "alice")
	createComplaint(t, env, "carol")

	if _, err := env.svc.Assign(context.Background(), aliceComplaint.ComplaintNo,
		&dto.AssignComplaintRequest{AssigneeID: "bob"}, "admin", model.RoleAdmin); err != nil {
		t.Fatalf("指派应成功: %v", err)
	}

	req := &dto.ComplaintListRequest{}

	// 学生只看到自己创建的
	items, total, err := env.svc.List(context.Background(), req, "alice", model.RoleStudent)
	if err != nil {
		t.Fatalf("学生查询应成功: %v", err)
	}
	if total != 1 || items[0].ComplaintNo != aliceComplaint.ComplaintNo {
		t.Errorf("学生应只看到自己的 1 条投诉，实际=%d", total)
	}

	// 教职工只看到指派给自己的
	_, total, err = env.svc.List(context.Background(), req, "bob", model.RoleFaculty)
	if err != nil {
		t.Fatalf("教职工查询应成功: %v", err)
	}
	if total != 1 {
		t.Errorf("教职工应只看到被指派的 1 条投诉，实际=%d", total)
	}

	// 管理员看到全部
	_, total, err = env.svc.List(context.Background(), req, "admin", model.RoleAdmin)
	if err != nil {
		t.Fatalf("管理员查询应成功: %v", err)
	}
	if total != 2 {
		t.Errorf("管理员应看到全部 2 条投诉，实际=%d", total)
	}
}

func TestGet_StrangerForbidden(t *testing.T) {
	env := setupComplaintEnv(false)
	seedUser(env.userRepo, "alice", "Alice", model.RoleStudent)
	seedUser(env.userRepo, "carol", "Carol", model.RoleStudent)
	created := createComplaint(t, env, "alice")

	_, err := env.svc.Get(context.Background(), created.ComplaintNo, "carol", model.RoleStudent)
	if !pkgerrors.IsPermission(err) {
		t.Errorf("他人投诉详情应为权限错误，实际: %v", err)
	}
}

func TestGet_NotFound(t *testing.T) {
	env := setupComplaintEnv(false)
	seedUser(env.userRepo, "admin", "Admin", model.RoleAdmin)

	_, err := env.svc.Get(context.Background(), "CMP-20260101-000001", "admin", model.RoleAdmin)
	if !pkgerrors.IsNotFound(err) {
		t.Errorf("期望资源不存在错误，实际: %v", err)
	}
}

// ── 完整生命周期场景 ──

func TestLifecycle_FullScenario(t *testing.T) {
	env := setupComplaintEnv(false)
	seedUser(env.userRepo, "alice", "Alice", model.RoleStudent)
	seedUser(env.userRepo, "bob", "Bob", model.RoleFaculty)
	seedUser(env.userRepo, "admin", "Admin", model.RoleAdmin)

	ctx := context.Background()

	// 1. alice 创建高优先级投诉 → PENDING，1 条历史
	created, err := env.svc.Create(ctx, &dto.CreateComplaintRequest{
		Title:       "Network Issue",
		Description: "实验楼网络完全中断，影响上课",
		CategoryID:  "cat-network",
		Priority:    model.PriorityHigh,
	}, nil, "alice", model.RoleStudent)
	if err != nil {
		t.Fatalf("创建应成功: %v", err)
	}
	if created.Status != model.StatusPending {
		t.Fatalf("期望 PENDING，实际=%s", created.Status)
	}

	// 2. 管理员指派 bob → IN_PROGRESS，2 条历史
	assigned, err := env.svc.Assign(ctx, created.ComplaintNo,
		&dto.AssignComplaintRequest{AssigneeID: "bob"}, "admin", model.RoleAdmin)
	if err != nil {
		t.Fatalf("指派应成功: %v", err)
	}
	if assigned.Status != model.StatusInProgress {
		t.Fatalf("期望 IN_PROGRESS，实际=%s", assigned.Status)
	}

	// 3. bob 标记已解决 → RESOLVED，3 条历史
	resolved, err := env.svc.UpdateStatus(ctx, created.ComplaintNo, &dto.UpdateStatusRequest{
		Status:  model.StatusResolved,
		Remarks: "Fixed router",
		Version: assigned.Version,
	}, "bob", model.RoleFaculty)
	if err != nil {
		t.Fatalf("bob 标记已解决应成功: %v", err)
	}
	if resolved.Status != model.StatusResolved {
		t.Fatalf("期望 RESOLVED，实际=%s", resolved.Status)
	}

	// 4. bob 尝试关闭 → 权限错误
	if _, err := env.svc.UpdateStatus(ctx, created.ComplaintNo, &dto.UpdateStatusRequest{
		Status:  model.StatusClosed,
		Version: resolved.Version,
	}, "bob", model.RoleFaculty); !pkgerrors.IsPermission(err) {
		t.Errorf("bob 关闭投诉应为权限错误，实际: %v", err)
	}

	// 5. 管理员关闭 → CLOSED，4 条历史
	closed, err := env.svc.UpdateStatus(ctx, created.ComplaintNo, &dto.UpdateStatusRequest{
		Status:  model.StatusClosed,
		Version: resolved.Version,
	}, "admin", model.RoleAdmin)
	if err != nil {
		t.Fatalf("管理员关闭应成功: %v", err)
	}
	if closed.Status != model.StatusClosed {
		t.Fatalf("期望 CLOSED，实际=%s", closed.Status)
	}

	history, err := env.svc.History(ctx, created.ComplaintNo, "admin", model.RoleAdmin)
	if err != nil {
		t.Fatalf("查询历史应成功: %v", err)
	}
	if len(history) != 4 {
		t.Fatalf("期望 4 条历史，实际=%d", len(history))
	}
	kinds := []string{
		model.HistoryKindCreated,
		model.HistoryKindAssigned,
		model.HistoryKindStatusChanged,
		model.HistoryKindStatusChanged,
	}
	for i, kind := range kinds {
		if history[i].Kind != kind {
			t.Errorf("历史第 %d 条期望类型 %s，实际=%s", i+1, kind, history[i].Kind)
		}
	}
}

// ── 统计 ──

func TestStats_ScopedByRole(t *testing.T) {
	env := setupComplaintEnv(false)
	seedUser(env.userRepo, "alice", "Alice", model.RoleStudent)
	seedUser(env.userRepo, "carol", "Carol", model.RoleStudent)
	seedUser(env.userRepo, "admin", "Admin", model.RoleAdmin)

	createComplaint(t, env, "alice")
	createComplaint(t, env, "carol")

	adminStats, err := env.svc.Stats(context.Background(), "admin", model.RoleAdmin)
	if err != nil {
		t.Fatalf("管理员统计应成功: %v", err)
	}
	if adminStats.Total != 2 {
		t.Errorf("管理员统计期望总数 2，实际=%d", adminStats.Total)
	}

	aliceStats, err := env.svc.Stats(context.Background(), "alice", model.RoleStudent)
	if err != nil {
		t.Fatalf("学生统计应成功: %v", err)
	}
	if aliceStats.Total != 1 {
		t.Errorf("学生统计期望总数 1，实际=%d", aliceStats.Total)
	}
	if aliceStats.ByStatus[model.StatusPending] != 1 {
		t.Errorf("学生统计 PENDING 期望 1，实际=%d", aliceStats.ByStatus[model.StatusPending])
	}
}

// ── 通知 ──

func TestNotifications_EmittedOnLifecycle(t *testing.T) {
	env := setupComplaintEnv(false)
	seedUser(env.userRepo, "alice", "Alice", model.RoleStudent)
	seedUser(env.userRepo, "bob", "Bob", model.RoleFaculty)
	seedUser(env.userRepo, "admin", "Admin", model.RoleAdmin)

	created := createComplaint(t, env, "alice")

	// 创建时通知管理员
	if env.notifRepo.countFor("admin") != 1 {
		t.Errorf("创建后管理员应收到 1 条通知，实际=%d", env.notifRepo.countFor("admin"))
	}

	if _, err := env.svc.Assign(context.Background(), created.ComplaintNo,
		&dto.AssignComplaintRequest{AssigneeID: "bob"}, "admin", model.RoleAdmin); err != nil {
		t.Fatalf("指派应成功: %v", err)
	}

	// 指派时通知受理人与创建者
	if env.notifRepo.countFor("bob") != 1 {
		t.Errorf("指派后受理人应收到 1 条通知，实际=%d", env.notifRepo.countFor("bob"))
	}
	if env.notifRepo.countFor("alice") != 1 {
		t.Errorf("指派后创建者应收到 1 条通知，实际=%d", env.notifRepo.countFor("alice"))
	}
}
