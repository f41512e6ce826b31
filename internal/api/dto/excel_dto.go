package dto

// ==================== 导入 ====================

// ImportResult 一次 Excel 上传的汇总结果
// Errors 按行序排列，条目格式固定为 "Row <n>: <message>"（n 为表格行号，表头占第 1 行）
type ImportResult struct {
	Message string   `json:"message"`
	Success int      `json:"success"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors"`
}

// ==================== 数据修复 ====================

// RepairSummary 综合修复（fix-data）各步骤影响行数
type RepairSummary struct {
	Message        string `json:"message,omitempty"`
	Swapped        int64  `json:"swapped"`
	SyncedSupply   int64  `json:"syncedSupply"`
	FixedShipping  int64  `json:"fixedShipping"`
	SyncedShipping int64  `json:"syncedShipping"`
}

// RepairCountResp 单项修复结果
type RepairCountResp struct {
	Message string `json:"message"`
	Count   int64  `json:"count"`
}
