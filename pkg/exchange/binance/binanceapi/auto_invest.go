package binanceapi

import (
	"github.com/c9s/autoinvest/pkg/types"
)

type AutoInvestPlanType string

const (
	AutoInvestPlanTypeSingle    AutoInvestPlanType = "SINGLE"
	AutoInvestPlanTypePortfolio AutoInvestPlanType = "PORTFOLIO"
	AutoInvestPlanTypeIndex     AutoInvestPlanType = "INDEX"
	AutoInvestPlanTypeAll       AutoInvestPlanType = "ALL"
)

type AutoInvestTransactionStatus string

const (
	AutoInvestTransactionStatusSuccess AutoInvestTransactionStatus = "SUCCESS"
	AutoInvestTransactionStatusFailure AutoInvestTransactionStatus = "FAILURE"
	AutoInvestTransactionStatusPending AutoInvestTransactionStatus = "PENDING"
)

type AutoInvestExecutionType string

const (
	AutoInvestExecutionTypeRecurring AutoInvestExecutionType = "RECURRING"
	AutoInvestExecutionTypeOneTime   AutoInvestExecutionType = "ONE_TIME"
)

// AutoInvestHistoryItem is one subscription transaction of an auto-invest plan.
// Fields missing from the payload are left as zero values.
type AutoInvestHistoryItem struct {
	Id                  int64                       `json:"id" db:"transaction_id"`
	TargetAsset         string                      `json:"targetAsset" db:"target_asset"`
	PlanType            AutoInvestPlanType          `json:"planType" db:"plan_type"`
	PlanName            string                      `json:"planName" db:"plan_name"`
	PlanId              int64                       `json:"planId" db:"plan_id"`
	TransactionDateTime types.MillisecondTimestamp  `json:"transactionDateTime" db:"transaction_time"`
	TransactionStatus   AutoInvestTransactionStatus `json:"transactionStatus" db:"transaction_status"`

	// FailedType is the failure reason, e.g. INSUFFICIENT_BALANCE, empty when the transaction succeeded
	FailedType string `json:"failedType" db:"failed_type"`

	SourceAsset        string                  `json:"sourceAsset" db:"source_asset"`
	SourceAssetAmount  types.Decimal           `json:"sourceAssetAmount" db:"source_asset_amount"`
	TargetAssetAmount  types.Decimal           `json:"targetAssetAmount" db:"target_asset_amount"`
	SourceWallet       string                  `json:"sourceWallet" db:"source_wallet"`
	FlexibleUsed       bool                    `json:"flexibleUsed" db:"flexible_used"`
	TransactionFee     types.Decimal           `json:"transactionFee" db:"transaction_fee"`
	TransactionFeeUnit string                  `json:"transactionFeeUnit" db:"transaction_fee_unit"`
	ExecutionPrice     types.Decimal           `json:"executionPrice" db:"execution_price"`
	ExecutionType      AutoInvestExecutionType `json:"executionType" db:"execution_type"`
	SubscriptionCycle  string                  `json:"subscriptionCycle" db:"subscription_cycle"`
}

func (i AutoInvestHistoryItem) IsSuccess() bool {
	return i.TransactionStatus == AutoInvestTransactionStatusSuccess
}

type AutoInvestHistoryList = QueryRecordList[AutoInvestHistoryItem]
