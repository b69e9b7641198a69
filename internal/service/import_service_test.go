package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/ssp-go-api/internal/auth"
	"github.com/noah-isme/ssp-go-api/internal/models"
	"github.com/noah-isme/ssp-go-api/internal/repository"
)

func newImportService(env *serviceEnv, options ImportOptions) ImportService {
	return NewImportService(ImportRepositories{
		Students: env.students,
		Catalog:  env.catalog,
		Academic: env.academic,
		Hostel:   env.hostel,
		Legacy:   env.legacy,
	}, options, env.activity, env.events, testLogger())
}

const hostelHeader = `"Online ` + "\n" + `Admission No.","1st year` + "\n" + `Messbill","1st year` + "\n" + `S/Ship","2nd year` + "\n" + `Messbill","2nd year` + "\n" + `S/Ship",Deposit,Remarks`

func TestImportHostelIsIdempotent(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()
	student, _ := env.student(t, "5000000101", "Aarav", "Menon", mcom)
	env.student(t, "5000000102", "Riya", "Das", mcom)
	svc := newImportService(env, ImportOptions{})

	input := func() *strings.Reader {
		return strings.NewReader(strings.Join([]string{
			hostelHeader,
			"5000000101,12000,2000,6000,1000,1000,ok",
			"5000000102,,,,,1000,no stay",
			"9999999999,100,0,0,0,0,",
		}, "\n"))
	}

	first, err := svc.Import(ctx, adminPrincipal(), ImportHostel, input())
	require.NoError(t, err)
	require.Equal(t, 3, first.Processed)
	require.Equal(t, 1, first.Upserted)
	require.Equal(t, 2, first.Skipped)
	require.Len(t, first.Errors, 1)
	require.Equal(t, "9999999999", first.Errors[0].RollNumber)

	second, err := svc.Import(ctx, adminPrincipal(), ImportHostel, input())
	require.NoError(t, err)
	require.Equal(t, first.Upserted, second.Upserted)

	var count int64
	require.NoError(t, env.db.Model(&models.HostelDue{}).Count(&count).Error)
	require.Equal(t, int64(2), count)

	rows, _, err := env.hostel.List(ctx, repository.HostelDueFilter{StudentProfileID: &student.ID})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, int64(9000), rows[0].DueAmount())
	require.Equal(t, int64(0), rows[1].Deposit)
	require.Equal(t, int64(9000+5000), models.HostelTotal(rows))
	require.Contains(t, env.events.types(), EventImportCompleted)
}

func TestImportAcademicResolvesFeeStructurePerYear(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()
	student, _ := env.student(t, "5000000001", "Aarav", "Sharma", mcom)
	env.student(t, "5000000003", "Kabir", "Iyer", "M.S.W")
	env.feeStructure(t, mcom, "2022-23", 19010, 2000, 3340)
	env.feeStructure(t, mcom, "2023-24", 19010, 2000, 3340)
	svc := newImportService(env, ImportOptions{})

	input := csvInput(
		"Admission No,1st Year Paid by Govt,1st Year Paid by Student,2nd Year Paid by Govt,2nd Year Paid by Student",
		"5000000001,0,10000,0,24350",
		"5000000003,100,0,,",
	)
	report, err := svc.Import(ctx, env.staffMember(t, "accounts@tu.in", models.DepartmentAccounts), ImportAcademic, input)
	require.NoError(t, err)
	require.Equal(t, 2, report.Processed)
	require.Equal(t, 1, report.Upserted)
	require.Len(t, report.Errors, 1)
	require.Contains(t, report.Errors[0].Message, "no fee structure")

	dues, _, err := env.academic.List(ctx, repository.AcademicDueFilter{StudentProfileID: &student.ID})
	require.NoError(t, err)
	require.Len(t, dues, 2)
	require.Equal(t, "2022-23", dues[0].FeeStructure.AcademicYear)
	require.Equal(t, "2023-24", dues[1].FeeStructure.AcademicYear)
	require.Equal(t, int64(14350), dues[0].DueAmount(*dues[0].FeeStructure))
	require.Equal(t, models.PaymentStatusPaid, dues[1].PaymentStatus)
}

func TestImportAcademicRejectsMalformedBaseYear(t *testing.T) {
	env := newServiceEnv(t)
	env.student(t, "5000000001", "Aarav", "Sharma", mcom)
	env.feeStructure(t, mcom, "2022-23", 19010, 2000, 3340)
	svc := newImportService(env, ImportOptions{BaseAcademicYear: "2022"})

	input := csvInput(
		"Admission No,1st Year Paid by Govt,1st Year Paid by Student",
		"5000000001,0,10000",
	)
	_, err := svc.Import(context.Background(), adminPrincipal(), ImportAcademic, input)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Contains(t, validationErr.Fields, "base_academic_year")
}

func TestImportLegacyKeepsUnmatchedRows(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()
	env.student(t, "5000000201", "Tara", "Pillai", mcom)
	svc := newImportService(env, ImportOptions{})

	input := csvInput(
		"Admission No,Name,Label,Due Amount,TC No,TC Issued On,Remarks",
		"5000000201,Tara Pillai,Lab Dues,\"1,200\",TC-1,12/05/2021,",
		"4000000001,Old Student,Tuition,500,,,left",
	)
	report, err := svc.Import(ctx, adminPrincipal(), ImportLegacy, input)
	require.NoError(t, err)
	require.Equal(t, 2, report.Upserted)
	require.Equal(t, 1, report.Unmatched)

	unmatched, _, err := env.legacy.List(ctx, repository.LegacyRecordFilter{UnmatchedOnly: true})
	require.NoError(t, err)
	require.Len(t, unmatched, 1)
	require.Nil(t, unmatched[0].StudentProfileID)

	all, total, err := env.legacy.List(ctx, repository.LegacyRecordFilter{})
	require.NoError(t, err)
	require.Equal(t, int64(2), total)
	for _, item := range all {
		if item.RollNumber == "5000000201" {
			require.Equal(t, int64(1200), item.DueAmount)
			require.NotNil(t, item.TCIssuedOn)
		}
	}
}

func TestImportStudentsCreatesAccountsOnce(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()
	svc := newImportService(env, ImportOptions{StudentDefaultPassword: "welcome-123"})

	input := func() *strings.Reader {
		return strings.NewReader(strings.Join([]string{
			"Admission No,Name,Course,Caste,Gender,Phone Number,Batch,Year,Hostel",
			"5000000301,Aarav Kumar Singh,M.C.A,OC,M,9876543210,2022,1,Yes",
			",Missing Roll,M.C.A,OC,M,,2022,1,No",
		}, "\n"))
	}

	first, err := svc.Import(ctx, adminPrincipal(), ImportStudents, input())
	require.NoError(t, err)
	require.Equal(t, 1, first.Created)
	require.Equal(t, 1, first.Skipped)

	second, err := svc.Import(ctx, adminPrincipal(), ImportStudents, input())
	require.NoError(t, err)
	require.Equal(t, 0, second.Created)
	require.Equal(t, 1, second.Upserted)

	profile, err := env.students.GetByRollNumber(ctx, "5000000301")
	require.NoError(t, err)
	require.True(t, profile.IsHostel)
	require.Equal(t, "Aarav", profile.User.FirstName)
	require.Equal(t, "Kumar Singh", profile.User.LastName)

	user, err := env.users.FindStudentByLogin(ctx, "5000000301")
	require.NoError(t, err)
	require.True(t, auth.CheckPassword(user.PasswordHash, "welcome-123"))
}

func TestImportRequiresOwningDepartment(t *testing.T) {
	env := newServiceEnv(t)
	svc := newImportService(env, ImportOptions{})
	library := env.staffMember(t, "library@tu.in", models.DepartmentLibrary)

	_, err := svc.Import(context.Background(), library, ImportHostel, csvInput("Admission No"))
	require.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Import(context.Background(), adminPrincipal(), "payments", csvInput("Admission No"))
	require.ErrorIs(t, err, ErrUnsupportedImport)
}

func TestImportRejectsBinaryPayload(t *testing.T) {
	env := newServiceEnv(t)
	svc := newImportService(env, ImportOptions{})
	png := strings.NewReader("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

	_, err := svc.Import(context.Background(), adminPrincipal(), ImportHostel, png)
	require.ErrorIs(t, err, ErrUnsupportedImport)
}

func TestNormalizeHeader(t *testing.T) {
	require.Equal(t, "admission no", normalizeHeader("Online \nAdmission No."))
	require.Equal(t, "admission no", normalizeHeader("  ADMISSION   no "))
	require.Equal(t, "1st year s/ship", normalizeHeader("1st year\nS/Ship"))
}

func TestParseAmount(t *testing.T) {
	cases := map[string]int64{"": 0, "-": 0, "1,200": 1200, "350.00": 350, " 42 ": 42}
	for input, expected := range cases {
		amount, err := parseAmount(input)
		require.NoError(t, err, input)
		require.Equal(t, expected, amount, input)
	}

	_, err := parseAmount("12.5")
	require.Error(t, err)
	_, err = parseAmount("-10")
	require.Error(t, err)
}
