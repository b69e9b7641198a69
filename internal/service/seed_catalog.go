package service

const (
	mainCampus  = "University Main Campus"
	southCampus = "University South Campus"
)

type seedFee struct {
	course   string
	category string
	tuition  int64
	special  int64
	other    int64
	exam     int64
	years    int
}

// feeCatalog holds the published 2022-23 postgraduate fee schedule.
var feeCatalog = []seedFee{
	{"M.A. (Applied Economics - 5 Years)", mainCampus, 13010, 2000, 0, 1620, 5},
	{"M.A. (Economics)", mainCampus, 13010, 2000, 0, 1620, 2},
	{"M.A. (English)", mainCampus, 13010, 2000, 0, 1620, 2},
	{"M.A. (Hindi)", mainCampus, 13010, 2000, 0, 1620, 2},
	{"M.A. (Mass Communication)", mainCampus, 9910, 2000, 0, 1620, 2},
	{"M.A. (Public Administration)", mainCampus, 13010, 2000, 0, 1620, 2},
	{"M.A. (Telugu Studies)", mainCampus, 13010, 2000, 0, 1620, 2},
	{"M.A. (Urdu)", mainCampus, 13010, 2000, 0, 1620, 2},
	{"M.Com. (e-Commerce)", mainCampus, 19010, 2000, 0, 3340, 2},
	{"M.Sc. (Applied Statistics)", mainCampus, 19500, 2000, 0, 1620, 2},
	{"M.Sc. (Bio-Technology)", mainCampus, 19500, 2000, 0, 3340, 2},
	{"M.Sc. (Botany)", mainCampus, 19500, 2000, 0, 1620, 2},
	{"M.Sc. (Mathematics)", mainCampus, 19500, 2000, 0, 1620, 2},
	{"M.Sc. (Chemistry - 2 Years Course in specialization with Organic Chemistry)", mainCampus, 19500, 2000, 0, 1620, 2},
	{"M.Sc. (Chemistry - 2 Years with specialization in Pharmaceutical Chemistry)", mainCampus, 19500, 2000, 0, 1620, 2},
	{"M.Sc. (Chemistry - 5 Years Integrated with specialization in Pharmaceutical Chemistry)", mainCampus, 19500, 2000, 0, 1620, 5},
	{"IMBA (Integrated Master of Business Management) (5 Yrs Integrated)", mainCampus, 20000, 2000, 0, 4700, 5},
	{"M.B.A", mainCampus, 10000, 2000, 650, 2270, 2},
	{"M.C.A", mainCampus, 12500, 2000, 650, 2220, 2},
	{"LL.B (3 Years)", mainCampus, 12000, 2000, 0, 1670, 3},
	{"LL.M (2 Years)", mainCampus, 12000, 2000, 0, 1670, 2},
	{"M.A. (History)", southCampus, 13010, 2000, 0, 1620, 2},
	{"M.A. (Political Science)", southCampus, 13010, 2000, 0, 1620, 2},
	{"M.A. (Telugu Studies - Comparative Literature)", southCampus, 13010, 2000, 0, 1620, 2},
	{"M.S.W", southCampus, 24010, 2000, 0, 2760, 2},
}

type seedStaff struct {
	email       string
	firstName   string
	department  string
	designation string
}

var sampleStaff = []seedStaff{
	{"accounts@tu.in", "Accounts", "accounts", "Accountant"},
	{"hostel@tu.in", "Hostel", "hostel", "Hostel Superintendent"},
	{"library@tu.in", "Library", "library", "Librarian"},
	{"lab@tu.in", "Lab", "lab", "Lab In-charge"},
	{"sports@tu.in", "Sports", "sports", "Sports In-charge"},
}
