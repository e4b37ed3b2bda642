package service

import (
	"context"
	"time"

	"github.com/badigital/ba-workflow/internal/application/port"
	"github.com/badigital/ba-workflow/internal/domain/entity"
	"github.com/badigital/ba-workflow/internal/domain/workflow"
)

// Mock repositories shared by the service tests. Each mock returns a benign
// default unless the test overrides the matching func field.

type mockGoodsReceiptRepo struct {
	createFunc            func(ctx context.Context, doc *entity.GoodsReceipt) error
	getByIDFunc           func(ctx context.Context, id int64) (*entity.GoodsReceipt, error)
	listFunc              func(ctx context.Context, filter port.GoodsReceiptFilter) ([]*entity.GoodsReceipt, int64, error)
	updateFunc            func(ctx context.Context, doc *entity.GoodsReceipt) error
	updateStatusFunc      func(ctx context.Context, id int64, status, rejectionReason string, reviewerID *int64) error
	deleteFunc            func(ctx context.Context, id int64) error
	countCreatedSinceFunc func(ctx context.Context, since time.Time) (int64, error)
	countByStatusFunc     func(ctx context.Context, vendorID int64) (*entity.DocumentStatistics, error)
	replaceItemsFunc      func(ctx context.Context, docID int64, items []*entity.GoodsReceiptItem) error
	getItemsFunc          func(ctx context.Context, docID int64) ([]*entity.GoodsReceiptItem, error)
}

func (m *mockGoodsReceiptRepo) Create(ctx context.Context, doc *entity.GoodsReceipt) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, doc)
	}
	doc.ID = 1
	return nil
}

func (m *mockGoodsReceiptRepo) GetByID(ctx context.Context, id int64) (*entity.GoodsReceipt, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return &entity.GoodsReceipt{ID: id, Status: entity.StatusDraft}, nil
}

func (m *mockGoodsReceiptRepo) List(ctx context.Context, filter port.GoodsReceiptFilter) ([]*entity.GoodsReceipt, int64, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, filter)
	}
	return []*entity.GoodsReceipt{}, 0, nil
}

func (m *mockGoodsReceiptRepo) Update(ctx context.Context, doc *entity.GoodsReceipt) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, doc)
	}
	return nil
}

func (m *mockGoodsReceiptRepo) UpdateStatus(ctx context.Context, id int64, status, rejectionReason string, reviewerID *int64) error {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, id, status, rejectionReason, reviewerID)
	}
	return nil
}

func (m *mockGoodsReceiptRepo) Delete(ctx context.Context, id int64) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockGoodsReceiptRepo) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	if m.countCreatedSinceFunc != nil {
		return m.countCreatedSinceFunc(ctx, since)
	}
	return 0, nil
}

func (m *mockGoodsReceiptRepo) CountByStatus(ctx context.Context, vendorID int64) (*entity.DocumentStatistics, error) {
	if m.countByStatusFunc != nil {
		return m.countByStatusFunc(ctx, vendorID)
	}
	return &entity.DocumentStatistics{}, nil
}

func (m *mockGoodsReceiptRepo) ReplaceItems(ctx context.Context, docID int64, items []*entity.GoodsReceiptItem) error {
	if m.replaceItemsFunc != nil {
		return m.replaceItemsFunc(ctx, docID, items)
	}
	return nil
}

func (m *mockGoodsReceiptRepo) GetItems(ctx context.Context, docID int64) ([]*entity.GoodsReceiptItem, error) {
	if m.getItemsFunc != nil {
		return m.getItemsFunc(ctx, docID)
	}
	return []*entity.GoodsReceiptItem{}, nil
}

type mockWorkProgressRepo struct {
	createFunc            func(ctx context.Context, doc *entity.WorkProgress) error
	getByIDFunc           func(ctx context.Context, id int64) (*entity.WorkProgress, error)
	listFunc              func(ctx context.Context, filter port.WorkProgressFilter) ([]*entity.WorkProgress, int64, error)
	updateFunc            func(ctx context.Context, doc *entity.WorkProgress) error
	updateStatusFunc      func(ctx context.Context, id int64, status, rejectionReason string, reviewerID *int64) error
	deleteFunc            func(ctx context.Context, id int64) error
	countCreatedSinceFunc func(ctx context.Context, since time.Time) (int64, error)
	countByStatusFunc     func(ctx context.Context, vendorID int64) (*entity.DocumentStatistics, error)
	replaceItemsFunc      func(ctx context.Context, docID int64, items []*entity.WorkItem) error
	getItemsFunc          func(ctx context.Context, docID int64) ([]*entity.WorkItem, error)
}

func (m *mockWorkProgressRepo) Create(ctx context.Context, doc *entity.WorkProgress) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, doc)
	}
	doc.ID = 1
	return nil
}

func (m *mockWorkProgressRepo) GetByID(ctx context.Context, id int64) (*entity.WorkProgress, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return &entity.WorkProgress{ID: id, Status: entity.StatusDraft}, nil
}

func (m *mockWorkProgressRepo) List(ctx context.Context, filter port.WorkProgressFilter) ([]*entity.WorkProgress, int64, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, filter)
	}
	return []*entity.WorkProgress{}, 0, nil
}

func (m *mockWorkProgressRepo) Update(ctx context.Context, doc *entity.WorkProgress) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, doc)
	}
	return nil
}

func (m *mockWorkProgressRepo) UpdateStatus(ctx context.Context, id int64, status, rejectionReason string, reviewerID *int64) error {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, id, status, rejectionReason, reviewerID)
	}
	return nil
}

func (m *mockWorkProgressRepo) Delete(ctx context.Context, id int64) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockWorkProgressRepo) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	if m.countCreatedSinceFunc != nil {
		return m.countCreatedSinceFunc(ctx, since)
	}
	return 0, nil
}

func (m *mockWorkProgressRepo) CountByStatus(ctx context.Context, vendorID int64) (*entity.DocumentStatistics, error) {
	if m.countByStatusFunc != nil {
		return m.countByStatusFunc(ctx, vendorID)
	}
	return &entity.DocumentStatistics{}, nil
}

func (m *mockWorkProgressRepo) ReplaceItems(ctx context.Context, docID int64, items []*entity.WorkItem) error {
	if m.replaceItemsFunc != nil {
		return m.replaceItemsFunc(ctx, docID, items)
	}
	return nil
}

func (m *mockWorkProgressRepo) GetItems(ctx context.Context, docID int64) ([]*entity.WorkItem, error) {
	if m.getItemsFunc != nil {
		return m.getItemsFunc(ctx, docID)
	}
	return []*entity.WorkItem{}, nil
}

// mockApprovalRepo records created ledger rows so tests can assert on them
type mockApprovalRepo struct {
	created           []*entity.ApprovalRecord
	createFunc        func(ctx context.Context, record *entity.ApprovalRecord) error
	listByDocFunc     func(ctx context.Context, docID int64) ([]*entity.ApprovalRecord, error)
	hasApprovedByFunc func(ctx context.Context, docID, approverID int64) (bool, error)
}

func (m *mockApprovalRepo) Create(ctx context.Context, record *entity.ApprovalRecord) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, record)
	}
	m.created = append(m.created, record)
	return nil
}

func (m *mockApprovalRepo) ListByDocument(ctx context.Context, docID int64) ([]*entity.ApprovalRecord, error) {
	if m.listByDocFunc != nil {
		return m.listByDocFunc(ctx, docID)
	}
	return m.created, nil
}

func (m *mockApprovalRepo) HasApprovedBy(ctx context.Context, docID, approverID int64) (bool, error) {
	if m.hasApprovedByFunc != nil {
		return m.hasApprovedByFunc(ctx, docID, approverID)
	}
	return false, nil
}

type mockUserRepo struct {
	createFunc      func(ctx context.Context, user *entity.User) error
	getByIDFunc     func(ctx context.Context, id int64) (*entity.User, error)
	getByEmailFunc  func(ctx context.Context, email string) (*entity.User, error)
	listByRolesFunc func(ctx context.Context, roles []string) ([]*entity.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, user *entity.User) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	user.ID = 1
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return &entity.User{ID: id, Name: "Test User", Role: entity.RoleVendor, IsActive: true}, nil
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	if m.getByEmailFunc != nil {
		return m.getByEmailFunc(ctx, email)
	}
	return nil, nil
}

func (m *mockUserRepo) ListByRoles(ctx context.Context, roles []string) ([]*entity.User, error) {
	if m.listByRolesFunc != nil {
		return m.listByRolesFunc(ctx, roles)
	}
	return []*entity.User{}, nil
}

type mockPaymentLogRepo struct {
	created           []*entity.PaymentLogEntry
	createFunc        func(ctx context.Context, log *entity.PaymentLogEntry) error
	listByDocFunc     func(ctx context.Context, kind string, docID int64) ([]*entity.PaymentLogEntry, error)
	listRecentFunc    func(ctx context.Context, limit int) ([]*entity.PaymentLogEntry, error)
	hasSuccessfulFunc func(ctx context.Context, kind string, docID int64) (bool, error)
	statisticsFunc    func(ctx context.Context, vendorID int64, kind string) (*entity.PaymentStatistics, error)
}

func (m *mockPaymentLogRepo) Create(ctx context.Context, log *entity.PaymentLogEntry) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, log)
	}
	m.created = append(m.created, log)
	return nil
}

func (m *mockPaymentLogRepo) ListByDocument(ctx context.Context, kind string, docID int64) ([]*entity.PaymentLogEntry, error) {
	if m.listByDocFunc != nil {
		return m.listByDocFunc(ctx, kind, docID)
	}
	return []*entity.PaymentLogEntry{}, nil
}

func (m *mockPaymentLogRepo) ListRecent(ctx context.Context, limit int) ([]*entity.PaymentLogEntry, error) {
	if m.listRecentFunc != nil {
		return m.listRecentFunc(ctx, limit)
	}
	return []*entity.PaymentLogEntry{}, nil
}

func (m *mockPaymentLogRepo) HasSuccessfulPayment(ctx context.Context, kind string, docID int64) (bool, error) {
	if m.hasSuccessfulFunc != nil {
		return m.hasSuccessfulFunc(ctx, kind, docID)
	}
	return false, nil
}

func (m *mockPaymentLogRepo) Statistics(ctx context.Context, vendorID int64, kind string) (*entity.PaymentStatistics, error) {
	if m.statisticsFunc != nil {
		return m.statisticsFunc(ctx, vendorID, kind)
	}
	return &entity.PaymentStatistics{}, nil
}

type mockNotificationRepo struct {
	created         []*entity.Notification
	listByUserFunc  func(ctx context.Context, userID int64, unreadOnly bool, limit, offset int) ([]*entity.Notification, error)
	countUnreadFunc func(ctx context.Context, userID int64) (int64, error)
	markReadFunc    func(ctx context.Context, id, userID int64) error
	markAllReadFunc func(ctx context.Context, userID int64) error
}

func (m *mockNotificationRepo) Create(ctx context.Context, n *entity.Notification) error {
	m.created = append(m.created, n)
	return nil
}

func (m *mockNotificationRepo) CreateBulk(ctx context.Context, ns []*entity.Notification) error {
	m.created = append(m.created, ns...)
	return nil
}

func (m *mockNotificationRepo) ListByUser(ctx context.Context, userID int64, unreadOnly bool, limit, offset int) ([]*entity.Notification, error) {
	if m.listByUserFunc != nil {
		return m.listByUserFunc(ctx, userID, unreadOnly, limit, offset)
	}
	return []*entity.Notification{}, nil
}

func (m *mockNotificationRepo) CountUnread(ctx context.Context, userID int64) (int64, error) {
	if m.countUnreadFunc != nil {
		return m.countUnreadFunc(ctx, userID)
	}
	return 0, nil
}

func (m *mockNotificationRepo) MarkRead(ctx context.Context, id, userID int64) error {
	if m.markReadFunc != nil {
		return m.markReadFunc(ctx, id, userID)
	}
	return nil
}

func (m *mockNotificationRepo) MarkAllRead(ctx context.Context, userID int64) error {
	if m.markAllReadFunc != nil {
		return m.markAllReadFunc(ctx, userID)
	}
	return nil
}

type mockTxManager struct {
	withTransactionFunc func(ctx context.Context, fn func(ctx context.Context) error) error
}

func (m *mockTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.withTransactionFunc != nil {
		return m.withTransactionFunc(ctx, fn)
	}
	return fn(ctx)
}

// mockNotifier counts dispatched events per action
type mockNotifier struct {
	submitted int
	approved  int
	rejected  int
	revisions int
	result    bool
	set       bool
}

func (m *mockNotifier) outcome() bool {
	if m.set {
		return m.result
	}
	return true
}

func (m *mockNotifier) DocumentSubmitted(ctx context.Context, kind workflow.Kind, docID int64, number string, vendor *entity.User) bool {
	m.submitted++
	return m.outcome()
}

func (m *mockNotifier) DocumentApproved(ctx context.Context, kind workflow.Kind, docID int64, number string, approver *entity.User, vendorID int64) bool {
	m.approved++
	return m.outcome()
}

func (m *mockNotifier) DocumentRejected(ctx context.Context, kind workflow.Kind, docID int64, number string, rejector *entity.User, vendorID int64, reason string) bool {
	m.rejected++
	return m.outcome()
}

func (m *mockNotifier) DocumentRevisionRequired(ctx context.Context, kind workflow.Kind, docID int64, number string, reviewer *entity.User, vendorID int64, reason string) bool {
	m.revisions++
	return m.outcome()
}

type mockAttachmentRepo struct {
	created     []*entity.Attachment
	createFunc  func(ctx context.Context, att *entity.Attachment) error
	getByIDFunc func(ctx context.Context, id int64) (*entity.Attachment, error)
	listFunc    func(ctx context.Context, docID int64, fileType string) ([]*entity.Attachment, error)
	deleteFunc  func(ctx context.Context, id int64) error
}

func (m *mockAttachmentRepo) Create(ctx context.Context, att *entity.Attachment) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, att)
	}
	att.ID = int64(len(m.created) + 1)
	m.created = append(m.created, att)
	return nil
}

func (m *mockAttachmentRepo) GetByID(ctx context.Context, id int64) (*entity.Attachment, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockAttachmentRepo) ListByDocument(ctx context.Context, docID int64, fileType string) ([]*entity.Attachment, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, docID, fileType)
	}
	return m.created, nil
}

func (m *mockAttachmentRepo) Delete(ctx context.Context, id int64) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

// mockFileStore keeps saved content in memory and records deletes
type mockFileStore struct {
	files   map[string][]byte
	saveErr error
	deleted []string
}

func newMockFileStore() *mockFileStore {
	return &mockFileStore{files: map[string][]byte{}}
}

func (m *mockFileStore) Save(relPath string, content []byte) (string, error) {
	if m.saveErr != nil {
		return "", m.saveErr
	}
	m.files[relPath] = content
	return "/storage/" + relPath, nil
}

func (m *mockFileStore) Delete(relPath string) error {
	m.deleted = append(m.deleted, relPath)
	delete(m.files, relPath)
	return nil
}

func (m *mockFileStore) FullPath(relPath string) string {
	return "/storage/" + relPath
}

func (m *mockFileStore) Exists(relPath string) bool {
	_, ok := m.files[relPath]
	return ok
}

type mockGateway struct {
	attemptFunc func(ctx context.Context, req port.PaymentRequest) (*port.PaymentResult, error)
	lastRequest *port.PaymentRequest
}

func (m *mockGateway) AttemptPayment(ctx context.Context, req port.PaymentRequest) (*port.PaymentResult, error) {
	m.lastRequest = &req
	if m.attemptFunc != nil {
		return m.attemptFunc(ctx, req)
	}
	return &port.PaymentResult{
		Status:        entity.PaymentStatusSuccess,
		TransactionID: "TXN-TEST00000001",
		Amount:        req.Amount,
	}, nil
}
