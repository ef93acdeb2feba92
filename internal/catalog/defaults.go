package catalog

import "github.com/example/automail-service/internal/models"

// Default builds the catalog from the built-in entries below.
func Default() (*Catalog, error) {
	dir, err := NewDirectory(DefaultRecipients())
	if err != nil {
		return nil, err
	}
	reg, err := NewRegistry(DefaultTemplates())
	if err != nil {
		return nil, err
	}
	return &Catalog{Directory: dir, Registry: reg}, nil
}

// DefaultRecipients returns the stock recipient set.
func DefaultRecipients() []models.Recipient {
	return []models.Recipient{
		{Code: "PE", Name: "John Smith", Email: "john.smith@company.com", Department: "Production", Role: "Employee"},
		{Code: "PM", Name: "Sarah Johnson", Email: "sarah.johnson@company.com", Department: "Production", Role: "Manager"},
		{Code: "HR", Name: "Mike Wilson", Email: "mike.wilson@company.com", Department: "Human Resources", Role: "HR Specialist"},
		{Code: "FN", Name: "Lisa Brown", Email: "lisa.brown@company.com", Department: "Finance", Role: "Finance Manager"},
		{Code: "IT", Name: "David Lee", Email: "david.lee@company.com", Department: "IT", Role: "IT Administrator"},
	}
}

// DefaultTemplates returns the stock template set. DataKeys document the
// keys each template's data source is contracted to supply.
func DefaultTemplates() []models.Template {
	return []models.Template{
		{
			Code:        "PE",
			Description: "Production Employee",
			Category:    "Production",
			Subject:     "Production Report - {Date}",
			DataKeys:    []string{"UnitsProduced", "QualityScore", "EfficiencyRate", "Downtime", "Target", "PerformanceMessage"},
			Body: `Dear {RecipientName},

This is your automated production report for {Date}.

Production Summary:
- Units Produced: {UnitsProduced}
- Quality Score: {QualityScore}%
- Efficiency Rate: {EfficiencyRate}%
- Downtime: {Downtime} hours

Your performance target for this period was {Target} units.
{PerformanceMessage}

Best regards,
Production Management System`,
		},
		{
			Code:        "PM",
			Description: "Production Manager",
			Category:    "Management",
			Subject:     "Daily Production Management Report - {Date}",
			DataKeys:    []string{"TotalUnits", "TeamPerformance", "IssuesCount", "ResolvedIssues", "DepartmentStatus", "ActionItems"},
			Body: `Dear {RecipientName},

Your daily production management summary for {Date}:

Overall Production Metrics:
- Total Units: {TotalUnits}
- Team Performance: {TeamPerformance}%
- Issues Reported: {IssuesCount}
- Resolved Issues: {ResolvedIssues}

Department Status: {DepartmentStatus}

Action items requiring your attention:
{ActionItems}

Best regards,
Management Information System`,
		},
		{
			Code:        "HR",
			Description: "Human Resource",
			Category:    "HR",
			Subject:     "HR Daily Summary - {Date}",
			DataKeys:    []string{"PresentCount", "AbsentCount", "LateCount", "LeaveRequests", "TrainingRequests", "PendingActions"},
			Body: `Dear {RecipientName},

Human Resources daily summary for {Date}:

Attendance Summary:
- Present: {PresentCount}
- Absent: {AbsentCount}
- Late Arrivals: {LateCount}

New Requests:
- Leave Requests: {LeaveRequests}
- Training Requests: {TrainingRequests}

Pending Actions: {PendingActions}

Best regards,
HR Management System`,
		},
		{
			Code:        "FN",
			Description: "Finance Department",
			Category:    "Finance",
			Subject:     "Financial Summary - {Date}",
			DataKeys:    []string{"Revenue", "Expenses", "NetAmount", "BudgetStatus", "OutstandingCount", "ReviewItems"},
			Body: `Dear {RecipientName},

Financial summary for {Date}:

Daily Figures:
- Revenue: ${Revenue}
- Expenses: ${Expenses}
- Net: ${NetAmount}

Budget Status: {BudgetStatus}
Outstanding Items: {OutstandingCount}

Requires Review: {ReviewItems}

Best regards,
Financial Management System`,
		},
		{
			Code:        "IT",
			Description: "IT Department",
			Category:    "IT",
			Subject:     "IT System Report - {Date}",
			DataKeys:    []string{"ServerUptime", "NetworkStatus", "BackupStatus", "NewTickets", "ResolvedTickets", "PendingTickets", "SecurityUpdates"},
			Body: `Dear {RecipientName},

IT systems status report for {Date}:

System Health:
- Server Uptime: {ServerUptime}%
- Network Status: {NetworkStatus}
- Backup Status: {BackupStatus}

Incidents:
- New Tickets: {NewTickets}
- Resolved: {ResolvedTickets}
- Pending: {PendingTickets}

Security Updates: {SecurityUpdates}

Best regards,
IT Management System`,
		},
	}
}
