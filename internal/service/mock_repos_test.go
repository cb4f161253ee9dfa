package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"campus-complaints/backend/internal/model"
	"campus-complaints/backend/internal/repository"
	pkgerrors "campus-complaints/backend/pkg/errors"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User // key: user_id / username / email:xxx
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) put(user *model.User) {
	m.users[user.UserID] = user
	m.users[user.Username] = user
	if user.Email != "" {
		m.users["email:"+user.Email] = user
	}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		user.UserID = "user-" + user.Username
	}
	user.CreatedAt = time.Now()
	m.put(user)
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	if u, ok := m.users[username]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	if u, ok := m.users["email:"+email]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.put(user)
	return nil
}

func (m *mockUserRepo) List(_ context.Context, filters *repository.UserListFilters, offset, limit int) ([]model.User, int64, error) {
	seen := make(map[string]bool)
	var all []model.User
	for _, u := range m.users {
		if seen[u.UserID] {
			continue
		}
		seen[u.UserID] = true
		if filters != nil {
			if filters.Role != "" && u.Role != filters.Role {
				continue
			}
			if filters.Keyword != "" &&
				!strings.Contains(u.Name, filters.Keyword) &&
				!strings.Contains(u.Username, filters.Keyword) {
				continue
			}
		}
		all = append(all, *u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Username < all[j].Username })
	total := int64(len(all))
	if offset > len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockUserRepo) ListByRole(_ context.Context, role string) ([]model.User, error) {
	seen := make(map[string]bool)
	var result []model.User
	for _, u := range m.users {
		if !seen[u.UserID] && u.Role == role {
			seen[u.UserID] = true
			result = append(result, *u)
		}
	}
	return result, nil
}

// ── Mock CategoryRepository ──

type mockCategoryRepo struct {
	categories    map[string]*model.Category
	subcategories map[string]*model.Subcategory
}

func newMockCategoryRepo() *mockCategoryRepo {
	return &mockCategoryRepo{
		categories:    make(map[string]*model.Category),
		subcategories: make(map[string]*model.Subcategory),
	}
}

func (m *mockCategoryRepo) Create(_ context.Context, category *model.Category) error {
	if category.CategoryID == "" {
		category.CategoryID = "cat-" + category.Name
	}
	m.categories[category.CategoryID] = category
	return nil
}

func (m *mockCategoryRepo) GetByID(_ context.Context, id string) (*model.Category, error) {
	if c, ok := m.categories[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCategoryRepo) GetByName(_ context.Context, name string) (*model.Category, error) {
	for _, c := range m.categories {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCategoryRepo) List(_ context.Context) ([]model.Category, error) {
	var result []model.Category
	for _, c := range m.categories {
		result = append(result, *c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockCategoryRepo) Update(_ context.Context, category *model.Category) error {
	m.categories[category.CategoryID] = category
	return nil
}

func (m *mockCategoryRepo) CreateSubcategory(_ context.Context, sub *model.Subcategory) error {
	if sub.SubcategoryID == "" {
		sub.SubcategoryID = "sub-" + sub.Name
	}
	m.subcategories[sub.SubcategoryID] = sub
	if parent, ok := m.categories[sub.CategoryID]; ok {
		parent.Subcategories = append(parent.Subcategories, *sub)
	}
	return nil
}

func (m *mockCategoryRepo) GetSubcategoryByID(_ context.Context, id string) (*model.Subcategory, error) {
	if s, ok := m.subcategories[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock ComplaintRepository ──
// 复刻真实实现的关键语义：编号按日期自增、乐观锁版本校验、历史原子追加

type mockComplaintRepo struct {
	complaints map[string]*model.Complaint         // key: complaint_id
	histories  map[string][]model.ComplaintHistory // key: complaint_id
	sequences  map[string]int                      // key: yyyy-mm-dd
	users      *mockUserRepo                       // 用于填充关联，可为 nil
	nextID     int
}

func newMockComplaintRepo(users *mockUserRepo) *mockComplaintRepo {
	return &mockComplaintRepo{
		complaints: make(map[string]*model.Complaint),
		histories:  make(map[string][]model.ComplaintHistory),
		sequences:  make(map[string]int),
		users:      users,
	}
}

func (m *mockComplaintRepo) fillAssociations(c *model.Complaint) {
	if m.users == nil {
		return
	}
	if u, err := m.users.GetByID(nil, c.CreatorID); err == nil {
		c.Creator = u
	}
	if c.AssigneeID != nil {
		if u, err := m.users.GetByID(nil, *c.AssigneeID); err == nil {
			c.Assignee = u
		}
	}
}

func (m *mockComplaintRepo) Create(_ context.Context, complaint *model.Complaint, history *model.ComplaintHistory) error {
	now := time.Now().UTC()
	dateKey := now.Format("2006-01-02")
	m.sequences[dateKey]++
	complaint.ComplaintNo = model.FormatComplaintNo(now, m.sequences[dateKey])

	m.nextID++
	complaint.ComplaintID = fmt.Sprintf("cmp-%d", m.nextID)
	complaint.CreatedAt = now
	complaint.UpdatedAt = now
	complaint.Version = 1

	stored := *complaint
	m.complaints[complaint.ComplaintID] = &stored

	history.ComplaintID = complaint.ComplaintID
	history.CreatedAt = now
	m.histories[complaint.ComplaintID] = append(m.histories[complaint.ComplaintID], *history)
	return nil
}

func (m *mockComplaintRepo) GetByNo(_ context.Context, complaintNo string) (*model.Complaint, error) {
	for _, c := range m.complaints {
		if c.ComplaintNo == complaintNo {
			cp := *c
			m.fillAssociations(&cp)
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockComplaintRepo) matches(c *model.Complaint, filters *repository.ComplaintListFilters) bool {
	if filters == nil {
		return true
	}
	if filters.Status != "" && c.Status != filters.Status {
		return false
	}
	if filters.Priority != "" && c.Priority != filters.Priority {
		return false
	}
	if filters.CategoryID != "" && c.CategoryID != filters.CategoryID {
		return false
	}
	if filters.CreatorID != "" && c.CreatorID != filters.CreatorID {
		return false
	}
	if filters.AssigneeID != "" && (c.AssigneeID == nil || *c.AssigneeID != filters.AssigneeID) {
		return false
	}
	if filters.Search != "" &&
		!strings.Contains(c.Title, filters.Search) &&
		!strings.Contains(c.Description, filters.Search) &&
		!strings.Contains(c.ComplaintNo, filters.Search) {
		return false
	}
	return true
}

func (m *mockComplaintRepo) collect(filters *repository.ComplaintListFilters) []model.Complaint {
	var all []model.Complaint
	for _, c := range m.complaints {
		if m.matches(c, filters) {
			cp := *c
			m.fillAssociations(&cp)
			all = append(all, cp)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ComplaintNo < all[j].ComplaintNo })
	return all
}

func (m *mockComplaintRepo) List(_ context.Context, filters *repository.ComplaintListFilters, offset, limit int) ([]model.Complaint, int64, error) {
	all := m.collect(filters)
	total := int64(len(all))
	if offset > len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockComplaintRepo) ListAll(_ context.Context, filters *repository.ComplaintListFilters) ([]model.Complaint, error) {
	return m.collect(filters), nil
}

func (m *mockComplaintRepo) UpdateWithHistory(_ context.Context, complaint *model.Complaint, history *model.ComplaintHistory) error {
	stored, ok := m.complaints[complaint.ComplaintID]
	if !ok || stored.Version != complaint.Version {
		return pkgerrors.ErrOptimisticLock
	}

	stored.Status = complaint.Status
	stored.Priority = complaint.Priority
	stored.AssigneeID = complaint.AssigneeID
	stored.Remarks = complaint.Remarks
	stored.AdminRemarks = complaint.AdminRemarks
	stored.AttachmentPath = complaint.AttachmentPath
	stored.AttachmentSize = complaint.AttachmentSize
	stored.AttachmentMime = complaint.AttachmentMime
	stored.ResolvedAt = complaint.ResolvedAt
	stored.UpdatedBy = complaint.UpdatedBy
	stored.UpdatedAt = time.Now()
	stored.Version++
	complaint.Version = stored.Version

	history.ComplaintID = complaint.ComplaintID
	history.CreatedAt = time.Now()
	m.histories[complaint.ComplaintID] = append(m.histories[complaint.ComplaintID], *history)
	return nil
}

func (m *mockComplaintRepo) ListHistory(_ context.Context, complaintID string) ([]model.ComplaintHistory, error) {
	entries := m.histories[complaintID]
	result := make([]model.ComplaintHistory, len(entries))
	copy(result, entries)
	return result, nil
}

func (m *mockComplaintRepo) CountByStatus(_ context.Context, filters *repository.ComplaintListFilters) (map[string]int64, error) {
	result := make(map[string]int64)
	for _, c := range m.collect(filters) {
		result[c.Status]++
	}
	return result, nil
}

func (m *mockComplaintRepo) CountByPriority(_ context.Context, filters *repository.ComplaintListFilters) (map[string]int64, error) {
	result := make(map[string]int64)
	for _, c := range m.collect(filters) {
		result[c.Priority]++
	}
	return result, nil
}

func (m *mockComplaintRepo) CountByCategory(_ context.Context, filters *repository.ComplaintListFilters) (map[string]int64, error) {
	result := make(map[string]int64)
	for _, c := range m.collect(filters) {
		result[c.CategoryID]++
	}
	return result, nil
}

func (m *mockComplaintRepo) AvgResolutionSeconds(_ context.Context, filters *repository.ComplaintListFilters) (*float64, error) {
	var sum float64
	var n int
	for _, c := range m.collect(filters) {
		if c.ResolvedAt != nil {
			sum += c.ResolvedAt.Sub(c.CreatedAt).Seconds()
			n++
		}
	}
	if n == 0 {
		return nil, nil
	}
	avg := sum / float64(n)
	return &avg, nil
}

// ── Mock FeedbackRepository ──

type mockFeedbackRepo struct {
	feedbacks map[string]*model.Feedback // key: complaint_id
}

func newMockFeedbackRepo() *mockFeedbackRepo {
	return &mockFeedbackRepo{feedbacks: make(map[string]*model.Feedback)}
}

func (m *mockFeedbackRepo) Create(_ context.Context, feedback *model.Feedback) error {
	if _, exists := m.feedbacks[feedback.ComplaintID]; exists {
		return gorm.ErrDuplicatedKey
	}
	if feedback.FeedbackID == "" {
		feedback.FeedbackID = "fb-" + feedback.ComplaintID
	}
	feedback.CreatedAt = time.Now()
	m.feedbacks[feedback.ComplaintID] = feedback
	return nil
}

func (m *mockFeedbackRepo) GetByComplaintID(_ context.Context, complaintID string) (*model.Feedback, error) {
	if f, ok := m.feedbacks[complaintID]; ok {
		return f, nil
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock NotificationRepository ──

type mockNotificationRepo struct {
	notifications []model.Notification
	nextID        int
}

func newMockNotificationRepo() *mockNotificationRepo {
	return &mockNotificationRepo{}
}

func (m *mockNotificationRepo) Create(_ context.Context, notification *model.Notification) error {
	m.nextID++
	notification.NotificationID = fmt.Sprintf("ntf-%d", m.nextID)
	notification.CreatedAt = time.Now()
	m.notifications = append(m.notifications, *notification)
	return nil
}

func (m *mockNotificationRepo) CreateBatch(_ context.Context, notifications []model.Notification) error {
	for i := range notifications {
		if err := m.Create(nil, &notifications[i]); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockNotificationRepo) ListByUser(_ context.Context, userID string, unreadOnly bool, offset, limit int) ([]model.Notification, int64, error) {
	var all []model.Notification
	for _, n := range m.notifications {
		if n.UserID == userID && (!unreadOnly || !n.IsRead) {
			all = append(all, n)
		}
	}
	total := int64(len(all))
	if offset > len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockNotificationRepo) MarkRead(_ context.Context, userID, notificationID string) error {
	for i := range m.notifications {
		if m.notifications[i].NotificationID == notificationID && m.notifications[i].UserID == userID {
			m.notifications[i].IsRead = true
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *mockNotificationRepo) MarkAllRead(_ context.Context, userID string) error {
	for i := range m.notifications {
		if m.notifications[i].UserID == userID {
			m.notifications[i].IsRead = true
		}
	}
	return nil
}

func (m *mockNotificationRepo) CountUnread(_ context.Context, userID string) (int64, error) {
	var count int64
	for _, n := range m.notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

// countFor 测试辅助：统计某用户收到的通知数
func (m *mockNotificationRepo) countFor(userID string) int {
	count := 0
	for _, n := range m.notifications {
		if n.UserID == userID {
			count++
		}
	}
	return count
}
