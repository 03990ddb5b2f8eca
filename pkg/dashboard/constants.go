package dashboard

const (
	operationDashboard    = "dashboard"
	operationAccountTable = "account_table"
	operationCompliance   = "compliance"
	operationSnapshot     = "snapshot"

	operationStatusOK    = "ok"
	operationStatusError = "error"

	selectAll = "all"

	labelNotRegistered = "Not Registered"
	labelNoBankDetails = "No Bank Details"
	labelNotAvailable  = "N/A"
	ellipsis           = "..."

	lakh = 100000

	topStateCount       = 8
	topBankCount        = 10
	topAccountCount     = 10
	bankLabelMaxRunes   = 15
	accountNameMaxRunes = 20

	expiringSoonDays       = 30
	repeatedDelayThreshold = 2
	vehicleIssueLimit      = 10
	healthyFleetPercent    = 80
	percentScale           = 100

	defaultPageSize = 10
	maxPageSize     = 100

	issueTagPUCExpired        = "PUC Expired"
	issueTagInsuranceExpired  = "Insurance Expired"
	issueTagGreenTaxExpired   = "Green Tax Expired"
	issueTagPUCExpiring       = "PUC Expiring"
	issueTagInsuranceExpiring = "Insurance Expiring"
	issueExpiredMarker        = "Expired"
)
