package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"scm_dev_v1_202608/internal/api/dto"
	"scm_dev_v1_202608/internal/model"
	"scm_dev_v1_202608/internal/repository"
	"scm_dev_v1_202608/pkg/cache"
)

// ==================== 导入模式 ====================

// 上传时的写入模式
const (
	ImportModeNew    = "new"    // 只新增：命中既有商品则跳过
	ImportModeUpdate = "update" // 只更新：未命中则跳过
	ImportModeAll    = "all"    // 缺省：命中更新，未命中新增
)

// NormalizeImportMode 非法模式一律回落到 all
func NormalizeImportMode(mode string) string {
	switch mode {
	case ImportModeNew, ImportModeUpdate, ImportModeAll:
		return mode
	default:
		return ImportModeAll
	}
}

// 单行处理结果
type rowAction int

const (
	actionInserted rowAction = iota
	actionUpdated
	actionSkipped
)

// ==================== 服务定义 ====================

// ImportService Excel 批量导入
// 整个工作簿一个事务，行级 SAVEPOINT 隔离：单行失败只回滚该行，批次照常提交；
// 事务本身（BEGIN/COMMIT 或行外代码）出错才整批回滚
type ImportService struct {
	db           *gorm.DB
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	productCache *cache.ProductCache
}

// NewImportService 创建导入服务
func NewImportService(
	db *gorm.DB,
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	productCache *cache.ProductCache,
) *ImportService {
	return &ImportService{
		db:           db,
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		productCache: productCache,
	}
}

// ==================== 批量导入 ====================

// ImportWorkbook 解析并导入工作簿（只读第一个 sheet，首行为表头）
// 返回 error 表示批级失败，调用方应报整体失败；行级失败都收敛在返回值的 Errors 里
func (s *ImportService) ImportWorkbook(ctx context.Context, r io.Reader, mode string) (*dto.ImportResult, error) {
	mode = NormalizeImportMode(mode)
	batchID := uuid.NewString()[:8]

	xf, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("无法解析 Excel 文件: %w", err)
	}
	defer xf.Close()

	sheet := xf.GetSheetName(0)
	if sheet == "" {
		return nil, errors.New("工作簿中没有 sheet")
	}
	rows, err := xf.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("读取 sheet 失败: %w", err)
	}

	result := &dto.ImportResult{
		Message: "Excel processing completed",
		Errors:  []string{},
	}
	if len(rows) < 2 {
		// 只有表头或完全为空，不算错误
		return result, nil
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}

	var skipped int
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		prodRepo := s.productRepo.WithTx(tx)
		catRepo := s.categoryRepo.WithTx(tx)

		for i := 1; i < len(rows); i++ {
			// 表头占第 1 行，首个数据行按第 2 行上报
			rowNum := i + 1

			row := buildRawRow(headers, rows[i])
			if len(row) == 0 {
				// 表尾常见整行空白，按无数据处理
				continue
			}

			sp := fmt.Sprintf("sp_row_%d", rowNum)
			if err := tx.SavePoint(sp).Error; err != nil {
				return err
			}

			action, err := s.processRow(ctx, prodRepo, catRepo, row, mode)
			if err != nil {
				if rbErr := tx.RollbackTo(sp).Error; rbErr != nil {
					return rbErr
				}
				result.Failed++
				result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %s", rowNum, err.Error()))
				zap.S().Warnf("导入批次 %s 第 %d 行失败: %v", batchID, rowNum, err)
				continue
			}

			if action == actionSkipped {
				skipped++
			} else {
				result.Success++
			}
		}
		return nil
	})
	if err != nil {
		zap.S().Errorf("导入批次 %s 整批失败: %v", batchID, err)
		return nil, err
	}

	s.productCache.Invalidate(ctx)
	zap.S().Infow("导入批次完成",
		"batch", batchID,
		"mode", mode,
		"success", result.Success,
		"failed", result.Failed,
		"skipped", skipped,
	)
	return result, nil
}

// buildRawRow 按表头把一行单元格转成 表头->值 映射，全空行返回空 map
func buildRawRow(headers []string, cells []string) rawRow {
	row := make(rawRow, len(headers))
	empty := true
	for j, h := range headers {
		if h == "" || j >= len(cells) {
			continue
		}
		row[h] = cells[j]
		if strings.TrimSpace(cells[j]) != "" {
			empty = false
		}
	}
	if empty {
		return nil
	}
	return row
}

// processRow 规范化 -> 分类解析 -> 按键匹配写入，全程跑在行级 SAVEPOINT 内
func (s *ImportService) processRow(
	ctx context.Context,
	prodRepo repository.ProductRepository,
	catRepo repository.CategoryRepository,
	row rawRow,
	mode string,
) (rowAction, error) {
	rec, err := normalizeRow(row)
	if err != nil {
		return actionSkipped, err
	}

	categoryID, err := s.resolveCategory(ctx, catRepo, rec.CategoryName)
	if err != nil {
		return actionSkipped, err
	}

	return s.upsertRecord(ctx, prodRepo, rec, categoryID, mode)
}

// ==================== 分类解析 ====================

// resolveCategory 分类标签 -> 分类 ID
// 空标签返回 nil（商品不挂分类）；查不到则即时创建，slug 冲突时复用既有行
func (s *ImportService) resolveCategory(
	ctx context.Context,
	catRepo repository.CategoryRepository,
	name string,
) (*int64, error) {
	if name == "" {
		return nil, nil
	}

	if cat, err := catRepo.GetByName(ctx, name); err != nil {
		return nil, err
	} else if cat != nil {
		return &cat.ID, nil
	}

	slug := slugify(name)
	if cat, err := catRepo.GetBySlug(ctx, slug); err != nil {
		return nil, err
	} else if cat != nil {
		return &cat.ID, nil
	}

	cat := &model.Category{Name: name, Slug: slug}
	if err := catRepo.InsertOrReuse(ctx, cat); err != nil {
		return nil, err
	}
	return &cat.ID, nil
}

// ==================== 按键写入 ====================

// upsertRecord 按自然键（model_no 优先，其次 model_name）匹配既有商品，
// 再按模式决定 insert / update / skip，一次调用至多写一行
func (s *ImportService) upsertRecord(
	ctx context.Context,
	prodRepo repository.ProductRepository,
	rec *productRecord,
	categoryID *int64,
	mode string,
) (rowAction, error) {
	var existing *model.Product
	var err error

	if rec.ModelNo != "" {
		existing, err = prodRepo.FirstByModelNo(ctx, rec.ModelNo)
		if err != nil {
			return actionSkipped, err
		}
	}
	if existing == nil {
		existing, err = prodRepo.FirstByModelName(ctx, rec.ModelName)
		if err != nil {
			return actionSkipped, err
		}
	}

	if existing != nil {
		if mode == ImportModeNew {
			return actionSkipped, nil
		}

		fields := map[string]interface{}{
			"brand":                   rec.Brand,
			"model_no":                rec.ModelNo,
			"description":             rec.Description,
			"product_spec":            rec.ProductSpec,
			"product_options":         rec.ProductOptions,
			"manufacturer":            rec.Manufacturer,
			"origin":                  rec.Origin,
			"image_url":               rec.ImageURL,
			"detail_url":              rec.DetailURL,
			"remarks":                 rec.Remarks,
			"b2b_price":               rec.B2BPrice,
			"consumer_price":          rec.ConsumerPrice,
			"supply_price":            rec.SupplyPrice,
			"stock_quantity":          rec.StockQuantity,
			"quantity_per_carton":     rec.QuantityPerCarton,
			"shipping_fee":            rec.ShippingFee,
			"shipping_fee_individual": rec.ShippingFeeIndividual,
			"shipping_fee_carton":     rec.ShippingFeeCarton,
			"is_tax_free":             rec.IsTaxFree,
		}
		// 行里没给分类时保留既有分类
		if categoryID != nil {
			fields["category_id"] = *categoryID
		}
		if err := prodRepo.UpdateFields(ctx, existing.ID, fields); err != nil {
			return actionSkipped, err
		}
		return actionUpdated, nil
	}

	if mode == ImportModeUpdate {
		return actionSkipped, nil
	}

	product := &model.Product{
		CategoryID:            categoryID,
		Brand:                 rec.Brand,
		ModelName:             rec.ModelName,
		ModelNo:               rec.ModelNo,
		Description:           rec.Description,
		ProductSpec:           rec.ProductSpec,
		ProductOptions:        rec.ProductOptions,
		Manufacturer:          rec.Manufacturer,
		Origin:                rec.Origin,
		ImageURL:              rec.ImageURL,
		DetailURL:             rec.DetailURL,
		Remarks:               rec.Remarks,
		B2BPrice:              rec.B2BPrice,
		ConsumerPrice:         rec.ConsumerPrice,
		SupplyPrice:           rec.SupplyPrice,
		StockQuantity:         rec.StockQuantity,
		QuantityPerCarton:     rec.QuantityPerCarton,
		ShippingFee:           rec.ShippingFee,
		ShippingFeeIndividual: rec.ShippingFeeIndividual,
		ShippingFeeCarton:     rec.ShippingFeeCarton,
		IsTaxFree:             rec.IsTaxFree,
		IsAvailable:           true, // 新导入商品默认上架
	}
	if err := prodRepo.Create(ctx, product); err != nil {
		return actionSkipped, err
	}
	return actionInserted, nil
}
