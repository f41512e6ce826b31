package task

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"scm_dev_v1_202608/internal/service"
)

// RepairTask 定时跑一遍全部数据修复
// 导入批次经常带着录反的价格和千单位截断的运费，夜间兜底修一次
type RepairTask struct {
	repairService *service.RepairService
	spec          string
	cron          *cron.Cron
}

// NewRepairTask 创建修复任务；spec 为空表示不启用
func NewRepairTask(repairService *service.RepairService, spec string) *RepairTask {
	return &RepairTask{
		repairService: repairService,
		spec:          spec,
		cron:          cron.New(),
	}
}

// Start 启动定时任务
func (t *RepairTask) Start() {
	if t.spec == "" {
		zap.S().Info("[RepairTask] 未配置 REPAIR_CRON，定时修复停用")
		return
	}

	_, err := t.cron.AddFunc(t.spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		t.execute(ctx)
	})
	if err != nil {
		zap.S().Fatalf("[RepairTask] 无法启动定时任务: %v", err)
	}

	t.cron.Start()
	zap.S().Infof("[RepairTask] 定时数据修复已启动 (%s)", t.spec)
}

// Stop 停止任务
func (t *RepairTask) Stop() {
	ctx := t.cron.Stop()
	<-ctx.Done()
	zap.S().Info("[RepairTask] 已停止")
}

// execute 执行一次修复
func (t *RepairTask) execute(ctx context.Context) {
	summary, err := t.repairService.RunAll(ctx)
	if err != nil {
		zap.S().Errorf("[RepairTask] 修复失败: %v", err)
		return
	}
	zap.S().Infow("[RepairTask] 修复完成",
		"swapped", summary.Swapped,
		"syncedSupply", summary.SyncedSupply,
		"fixedShipping", summary.FixedShipping,
		"syncedShipping", summary.SyncedShipping,
	)
}
