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

type mockDepartmentDueService struct {
	principal auth.Principal
	listReq   dto.DepartmentDueListRequest
	createReq dto.DepartmentDueCreateRequest
	err       error
}

func (m *mockDepartmentDueService) List(_ context.Context, principal auth.Principal, req dto.DepartmentDueListRequest) (dto.DepartmentDueListResponse, error) {
	m.principal = principal
	m.listReq = req
	return dto.DepartmentDueListResponse{Items: []dto.DepartmentDueResponse{}, Pagination: dto.NewPaginationMeta(1, 0, 0)}, m.err
}

func (m *mockDepartmentDueService) Create(_ context.Context, principal auth.Principal, req dto.DepartmentDueCreateRequest) (dto.DepartmentDueResponse, error) {
	m.principal = principal
	m.createReq = req
	if m.err != nil {
		return dto.DepartmentDueResponse{}, m.err
	}
	return dto.DepartmentDueResponse{ID: 1, Department: string(principal.Department), Amount: req.Amount}, nil
}

func (m *mockDepartmentDueService) MarkPaid(_ context.Context, principal auth.Principal, id uint) (dto.MarkPaidResponse, error) {
	m.principal = principal
	if m.err != nil {
		return dto.MarkPaidResponse{}, m.err
	}
	return dto.MarkPaidResponse{ID: id, Status: "Marked as paid"}, nil
}

func newDuesApp(svc service.DepartmentDueService) *fiber.App {
	app, group := protectedGroup("/api/v1/dues")
	handler.NewDepartmentDueHandler(svc, zerolog.Nop()).Register(group)
	return app
}

func TestDepartmentDueHandler_CreateUsesCaller(t *testing.T) {
	svc := &mockDepartmentDueService{}
	app := newDuesApp(svc)

	resp := doJSON(t, app, http.MethodPost, "/api/v1/dues", &hostelCaller, map[string]interface{}{
		"student_id": "5000000001", "amount": 1500, "due_date": "2024-03-31",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	require.Equal(t, hostelCaller, svc.principal)
	require.Equal(t, int64(1500), svc.createReq.Amount)
}

func TestDepartmentDueHandler_DepartmentMismatchIsValidationError(t *testing.T) {
	svc := &mockDepartmentDueService{err: service.NewValidationError("department", "you can only create dues for the hostel department")}
	app := newDuesApp(svc)

	resp := doJSON(t, app, http.MethodPost, "/api/v1/dues", &hostelCaller, map[string]interface{}{
		"student_id": "5000000001", "department": "library", "amount": 100, "due_date": "2024-03-31",
	})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	payload := decodeEnvelope(t, resp)
	require.Contains(t, payload.Details, "department")
}

func TestDepartmentDueHandler_MarkPaidForbidden(t *testing.T) {
	app := newDuesApp(&mockDepartmentDueService{err: service.ErrForbidden})

	resp := doJSON(t, app, http.MethodPost, "/api/v1/dues/7/mark_as_paid", &libraryCaller, nil)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestDepartmentDueHandler_MarkPaidUnknownDue(t *testing.T) {
	app := newDuesApp(&mockDepartmentDueService{err: service.ErrDueNotFound})

	resp := doJSON(t, app, http.MethodPost, "/api/v1/dues/7/mark_as_paid", &hostelCaller, nil)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestDepartmentDueHandler_ListParsesFilters(t *testing.T) {
	svc := &mockDepartmentDueService{}
	app := newDuesApp(svc)

	resp := doJSON(t, app, http.MethodGet, "/api/v1/dues?is_paid=false&min_amount=100&due_date_before=2024-12-31&ordering=-amount&page=2&page_size=10", &hostelCaller, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NotNil(t, svc.listReq.IsPaid)
	require.False(t, *svc.listReq.IsPaid)
	require.Equal(t, int64(100), *svc.listReq.MinAmount)
	require.Equal(t, 2024, svc.listReq.DueDateBefore.Year())
	require.Equal(t, "-amount", svc.listReq.Ordering)
	require.Equal(t, 2, svc.listReq.Page)

	bad := doJSON(t, app, http.MethodGet, "/api/v1/dues?is_paid=maybe", &hostelCaller, nil)
	require.Equal(t, fiber.StatusBadRequest, bad.StatusCode)
}

func TestDepartmentDueHandler_RequiresToken(t *testing.T) {
	app := newDuesApp(&mockDepartmentDueService{})

	resp := doJSON(t, app, http.MethodGet, "/api/v1/dues", nil, nil)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
