package attendance

type RecordWorkDayRequest struct {
	EmployeeID    string  `json:"employee_id" binding:"required,uuid"`
	WorkDate      string  `json:"work_date" binding:"required"`
	DayType       string  `json:"day_type" binding:"required,oneof=WEEKDAY WEEKEND HOLIDAY"`
	OvertimeHours string  `json:"overtime_hours"`
	Source        string  `json:"source"`
	Notes         *string `json:"notes"`
}

type WorkRecordResponse struct {
	ID            string  `json:"id"`
	EmployeeID    string  `json:"employee_id"`
	EmployeeName  string  `json:"employee_name,omitempty"`
	WorkDate      string  `json:"work_date"`
	DayType       string  `json:"day_type"`
	OvertimeHours string  `json:"overtime_hours"`
	IsApproved    bool    `json:"is_approved"`
	Source        string  `json:"source"`
	Notes         *string `json:"notes,omitempty"`
}
