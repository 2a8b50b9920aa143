package portal

import "net/http"

type GetAdminDashboardV1Output struct {
	Data GetAdminDashboardV1OutputData

	http.Response
}

type GetAdminDashboardV1OutputData struct {
	Headcount       int     `json:"headcount"`
	PendingPayrolls int     `json:"pendingPayrolls"`
	OpenViolations  int     `json:"openViolations"`
	PendingRequests int     `json:"pendingRequests"`
	AttendanceRate  float64 `json:"attendanceRate"`
}

func (c Client) GetAdminDashboardV1() (*GetAdminDashboardV1Output, error) {
	var outputData GetAdminDashboardV1OutputData
	outputClient, err := c.do(request{
		Method: http.MethodGet,
		Path:   "/api/v1/dashboard/admin",
		Output: &outputData,
	})
	if err != nil {
		if outputClient == nil {
			return nil, err
		}
		switch outputClient.GetErrorCode().Error() {
		case ErrorAuthRequired.Error():
			err = ErrorAuthRequired
		case ErrorRoleMismatch.Error():
			err = ErrorRoleMismatch
		case ErrorSessionExpired.Error():
			err = ErrorSessionExpired
		}
	}
	return &GetAdminDashboardV1Output{
		Data:     outputData,
		Response: outputClient.GetResponse(),
	}, err
}

type GetEmployeeDashboardV1Output struct {
	Data GetEmployeeDashboardV1OutputData

	http.Response
}

type GetEmployeeDashboardV1OutputData struct {
	AttendanceDays  int     `json:"attendanceDays"`
	PendingRequests int     `json:"pendingRequests"`
	IncentivesTotal float64 `json:"incentivesTotal"`
	DeductionsTotal float64 `json:"deductionsTotal"`
	BenefitsActive  int     `json:"benefitsActive"`
}

func (c Client) GetEmployeeDashboardV1() (*GetEmployeeDashboardV1Output, error) {
	var outputData GetEmployeeDashboardV1OutputData
	outputClient, err := c.do(request{
		Method: http.MethodGet,
		Path:   "/api/v1/dashboard/employee",
		Output: &outputData,
	})
	if err != nil {
		if outputClient == nil {
			return nil, err
		}
		switch outputClient.GetErrorCode().Error() {
		case ErrorAuthRequired.Error():
			err = ErrorAuthRequired
		case ErrorSessionExpired.Error():
			err = ErrorSessionExpired
		}
	}
	return &GetEmployeeDashboardV1Output{
		Data:     outputData,
		Response: outputClient.GetResponse(),
	}, err
}
