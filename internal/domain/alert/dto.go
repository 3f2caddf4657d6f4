package alert

type Filter struct {
	EmployeeID   string
	DepartmentID string
	Kind         Kind
	Severity     Severity
	Page         int
	Limit        int
}

func (f *Filter) SetDefaults() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}
}

type ListResponse struct {
	Alerts []Alert `json:"alerts"`
	Total  int     `json:"total"`
	Page   int     `json:"page"`
	Limit  int     `json:"limit"`
}
