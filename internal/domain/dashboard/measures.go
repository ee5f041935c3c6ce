package dashboard

import "time"

const (
	MeasureTodayPatients = "today-patients"
	MeasureTodayBills    = "today-bills"
	MeasureTodayRevenue  = "today-revenue"
	MeasureTotalPatients = "total-patients"
	MeasureTotalDoctors  = "total-doctors"
	MeasureUnpaidBills   = "unpaid-bills"
)

// Measure is a predefined dashboard figure backed by a single-value query.
// Daily measures receive the PKT day bounds as $1 (inclusive) and $2
// (exclusive).
type Measure struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Daily       bool   `json:"daily"`
	SQL         string `json:"-"`
}

// PredefinedMeasures is the list of available measures in display order.
var PredefinedMeasures = []Measure{
	{
		ID:          MeasureTodayPatients,
		Name:        "Patients Registered Today",
		Description: "Patients created during the PKT day",
		Daily:       true,
		SQL:         `SELECT COUNT(*)::float8 FROM patient WHERE created_at >= $1 AND created_at < $2`,
	},
	{
		ID:          MeasureTodayBills,
		Name:        "Bills Created Today",
		Description: "Bills dated within the PKT day",
		Daily:       true,
		SQL:         `SELECT COUNT(*)::float8 FROM bill WHERE date >= $1 AND date < $2`,
	},
	{
		ID:          MeasureTodayRevenue,
		Name:        "Revenue Today",
		Description: "Sum of paid bills dated within the PKT day",
		Daily:       true,
		SQL:         `SELECT COALESCE(SUM(amount), 0)::float8 FROM bill WHERE status = 'paid' AND date >= $1 AND date < $2`,
	},
	{
		ID:          MeasureTotalPatients,
		Name:        "Total Patients",
		Description: "All registered patients",
		SQL:         `SELECT COUNT(*)::float8 FROM patient`,
	},
	{
		ID:          MeasureTotalDoctors,
		Name:        "Total Doctors",
		Description: "All doctors on record",
		SQL:         `SELECT COUNT(*)::float8 FROM doctor`,
	},
	{
		ID:          MeasureUnpaidBills,
		Name:        "Unpaid Bills",
		Description: "Bills with status unpaid",
		SQL:         `SELECT COUNT(*)::float8 FROM bill WHERE status = 'unpaid'`,
	},
}

// FindMeasure looks up a measure by ID.
func FindMeasure(id string) *Measure {
	for i := range PredefinedMeasures {
		if PredefinedMeasures[i].ID == id {
			return &PredefinedMeasures[i]
		}
	}
	return nil
}

// Result is an evaluated measure.
type Result struct {
	MeasureID   string    `json:"measureId"`
	MeasureName string    `json:"measureName"`
	Day         string    `json:"day,omitempty"`
	Value       float64   `json:"value"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// RecentPatient is a patient row shown on the dashboard.
type RecentPatient struct {
	ID         string    `json:"id"`
	PatientID  string    `json:"patientId"`
	Name       string    `json:"name"`
	Age        int       `json:"age"`
	Gender     string    `json:"gender"`
	Contact    string    `json:"contact"`
	DoctorName *string   `json:"doctorName"`
	Department *string   `json:"department"`
	CreatedAt  time.Time `json:"createdAt"`
	Time       string    `json:"time"`
}

// Overview is the front-office landing summary for one PKT day.
type Overview struct {
	Date          string           `json:"date"`
	TodayPatients int              `json:"todayPatients"`
	TodayBills    int              `json:"todayBills"`
	TodayRevenue  float64          `json:"todayRevenue"`
	TotalPatients int              `json:"totalPatients"`
	TotalDoctors  int              `json:"totalDoctors"`
	UnpaidBills   int              `json:"unpaidBills"`
	Patients      []*RecentPatient `json:"patients"`
}
