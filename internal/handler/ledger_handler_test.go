package handler_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/ssp-go-api/internal/auth"
	"github.com/noah-isme/ssp-go-api/internal/dto"
	"github.com/noah-isme/ssp-go-api/internal/handler"
	"github.com/noah-isme/ssp-go-api/internal/service"
)

type mockBorrowService struct {
	kinds   []string
	listReq dto.BorrowRecordListRequest
	err     error
}

func (m *mockBorrowService) List(_ context.Context, _ auth.Principal, kind string, req dto.BorrowRecordListRequest) (dto.BorrowRecordListResponse, error) {
	m.kinds = append(m.kinds, kind)
	m.listReq = req
	return dto.BorrowRecordListResponse{Items: []dto.BorrowRecordResponse{}}, m.err
}

func (m *mockBorrowService) Grouped(_ context.Context, _ auth.Principal, kind string, _ dto.BorrowRecordListRequest) ([]dto.BorrowRecordGroup, error) {
	m.kinds = append(m.kinds, kind)
	return []dto.BorrowRecordGroup{{StudentRef: dto.StudentRef{RollNumber: "5000000001"}, TotalFineAmount: 120}}, m.err
}

func (m *mockBorrowService) Create(_ context.Context, _ auth.Principal, kind string, req dto.BorrowRecordCreateRequest) (dto.BorrowRecordResponse, error) {
	m.kinds = append(m.kinds, kind)
	return dto.BorrowRecordResponse{ID: 1, Kind: kind, ItemName: req.ItemName}, m.err
}

func (m *mockBorrowService) Update(_ context.Context, _ auth.Principal, kind string, id uint, _ dto.BorrowRecordUpdateRequest) (dto.BorrowRecordResponse, error) {
	m.kinds = append(m.kinds, kind)
	return dto.BorrowRecordResponse{ID: id, Kind: kind}, m.err
}

type mockHostelService struct {
	err error
}

func (m mockHostelService) List(context.Context, auth.Principal, dto.HostelDueListRequest) (dto.HostelDueListResponse, error) {
	return dto.HostelDueListResponse{Items: []dto.HostelDueResponse{}}, m.err
}

func (m mockHostelService) Update(_ context.Context, _ auth.Principal, id uint, _ dto.HostelDueUpdateRequest) (dto.HostelDueResponse, error) {
	return dto.HostelDueResponse{ID: id}, m.err
}

func newLedgerApp(services handler.LedgerServices) *fiber.App {
	app, group := protectedGroup("/api/v1/dues")
	handler.NewLedgerHandler(services, zerolog.Nop()).Register(group)
	return app
}

func TestLedgerHandler_BorrowRoutesCarryKind(t *testing.T) {
	borrow := &mockBorrowService{}
	app := newLedgerApp(handler.LedgerServices{Borrow: borrow})

	resp := doJSON(t, app, http.MethodGet, "/api/v1/dues/library-records?with_fine=true", &libraryCaller, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.True(t, borrow.listReq.WithFineOnly)

	resp = doJSON(t, app, http.MethodGet, "/api/v1/dues/sports-records/grouped", &libraryCaller, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/api/v1/dues/library-records", &libraryCaller, map[string]interface{}{
		"student_id": "5000000001", "item_name": "Atlas", "borrow_date": "2024-01-01",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPatch, "/api/v1/dues/sports-records/4", &libraryCaller, map[string]interface{}{"fine_amount": 50})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	require.Equal(t, []string{"library", "sports", "library", "sports"}, borrow.kinds)
}

func TestLedgerHandler_BorrowForbidden(t *testing.T) {
	app := newLedgerApp(handler.LedgerServices{Borrow: &mockBorrowService{err: service.ErrForbidden}})

	resp := doJSON(t, app, http.MethodPost, "/api/v1/dues/sports-records", &libraryCaller, map[string]interface{}{
		"student_id": "5000000001", "item_name": "Bat", "borrow_date": "2024-01-01",
	})
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestLedgerHandler_HostelPatchValidatesIdentifier(t *testing.T) {
	app := newLedgerApp(handler.LedgerServices{Hostel: mockHostelService{}})

	resp := doJSON(t, app, http.MethodPatch, "/api/v1/dues/hostel/abc", &hostelCaller, map[string]interface{}{"mess_bill": 100})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPatch, "/api/v1/dues/hostel/3", &hostelCaller, map[string]interface{}{"mess_bill": 100})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/v1/dues/hostel?page=x", &studentCaller, nil)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
