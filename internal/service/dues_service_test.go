package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/ssp-go-api/internal/dto"
	"github.com/noah-isme/ssp-go-api/internal/models"
)

func TestAcademicDueUpdateRecomputesBalance(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()
	profile, student := env.student(t, "5000001101", "Leela", "Nair", mcom)
	fee := env.feeStructure(t, mcom, "2022-23", 10000, 500, 500)
	due := models.AcademicDue{StudentProfileID: profile.ID, YearLabel: "1", FeeStructureID: &fee.ID, PaymentStatus: models.PaymentStatusUnpaid}
	require.NoError(t, env.db.Omit(clause.Associations).Create(&due).Error)
	accounts := env.staffMember(t, "accounts@tu.in", models.DepartmentAccounts)
	svc := NewAcademicDueService(env.academic, env.students, NewValidator(), env.activity, testLogger())

	paid := int64(7000)
	_, err := svc.Update(ctx, student, due.ID, dto.AcademicDueUpdateRequest{PaidByStudent: &paid})
	require.ErrorIs(t, err, ErrForbidden)

	updated, err := svc.Update(ctx, accounts, due.ID, dto.AcademicDueUpdateRequest{PaidByStudent: &paid})
	require.NoError(t, err)
	require.NotNil(t, updated.DueAmount)
	require.Equal(t, int64(4000), *updated.DueAmount)

	_, err = svc.Update(ctx, accounts, due.ID+100, dto.AcademicDueUpdateRequest{PaidByStudent: &paid})
	require.ErrorIs(t, err, ErrNotFound)

	own, err := svc.List(ctx, student, dto.AcademicDueListRequest{})
	require.NoError(t, err)
	require.Len(t, own.Items, 1)
}

func TestOtherDueUpsertKeepsOneRowPerCategory(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()
	env.student(t, "5000001102", "Kiran", "Rao", mcom)
	lab := env.staffMember(t, "lab@tu.in", models.DepartmentLab)
	svc := NewOtherDueService(env.other, env.students, NewValidator(), env.activity, env.events, testLogger())

	_, err := svc.Upsert(ctx, lab, dto.OtherDueUpsertRequest{StudentID: "5000001102", Category: "library", Amount: 10})
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)

	_, err = svc.Upsert(ctx, lab, dto.OtherDueUpsertRequest{StudentID: "5000001102", Category: "lab", Amount: 120})
	require.NoError(t, err)
	second, err := svc.Upsert(ctx, lab, dto.OtherDueUpsertRequest{StudentID: "5000001102", Category: "lab", Amount: 80, Remark: "<b>broken</b> beaker"})
	require.NoError(t, err)
	require.Equal(t, int64(80), second.Amount)
	require.Equal(t, "broken beaker", second.Remark)

	dues, err := svc.List(ctx, lab, dto.OtherDueListRequest{StudentID: "5000001102"})
	require.NoError(t, err)
	require.Len(t, dues, 1)

	_, err = svc.Upsert(ctx, lab, dto.OtherDueUpsertRequest{StudentID: "5000001102", Category: "lab", Amount: -1})
	var fieldErrs validator.ValidationErrors
	require.ErrorAs(t, err, &fieldErrs)
}

func TestCatalogUpsertValidatesAcademicYear(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()
	accounts := env.staffMember(t, "accounts@tu.in", models.DepartmentAccounts)
	svc := NewCatalogService(env.catalog, NewValidator(), env.activity, env.events, testLogger())

	_, err := svc.UpsertFeeStructure(ctx, accounts, dto.FeeStructureUpsertRequest{CourseName: mcom, AcademicYear: "2022-24", Category: defaultFeeCategory, TuitionFee: 100})
	require.Error(t, err)

	created, err := svc.UpsertFeeStructure(ctx, accounts, dto.FeeStructureUpsertRequest{CourseName: mcom, AcademicYear: "2022-23", Category: defaultFeeCategory, TuitionFee: 100})
	require.NoError(t, err)
	replaced, err := svc.UpsertFeeStructure(ctx, accounts, dto.FeeStructureUpsertRequest{CourseName: mcom, AcademicYear: "2022-23", Category: defaultFeeCategory, TuitionFee: 250})
	require.NoError(t, err)
	require.Equal(t, created.ID, replaced.ID)
	require.Equal(t, int64(250), replaced.TuitionFee)

	fees, err := svc.ListFeeStructures(ctx, dto.FeeStructureListRequest{CourseName: mcom})
	require.NoError(t, err)
	require.Len(t, fees, 1)
}
