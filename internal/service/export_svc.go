package service

import (
	"context"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"scm_dev_v1_202608/internal/model"
)

// 导出列次序与导入的英文规范表头一致，导出文件可直接回灌
var exportHeaders = []string{
	"Brand", "ModelName", "ModelNo", "Category", "Description",
	"B2BPrice", "ConsumerPrice", "SupplyPrice", "Stock",
	"ImageURL", "DetailURL", "Manufacturer", "Origin",
	"ProductSpec", "ProductOptions", "QuantityPerCarton",
	"ShippingFee", "ShippingFeeIndividual", "ShippingFeeCarton",
	"IsTaxFree", "Remark",
}

// ExportService 商品目录导出为 xlsx
type ExportService struct {
	db *gorm.DB
}

// NewExportService 创建导出服务
func NewExportService(db *gorm.DB) *ExportService {
	return &ExportService{db: db}
}

// WriteCatalog 把全部商品（含下架）写成工作簿并输出到 w，返回导出行数
func (s *ExportService) WriteCatalog(ctx context.Context, w io.Writer) (int, error) {
	var products []model.Product
	err := s.db.WithContext(ctx).
		Preload("Category").
		Order("id ASC").
		Find(&products).Error
	if err != nil {
		return 0, err
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := "Sheet1"

	for col, h := range exportHeaders {
		f.SetCellValue(sheet, cellAxis(col, 1), h)
	}

	for i, p := range products {
		rowNum := i + 2 // 表头占第 1 行
		categoryName := ""
		if p.Category != nil {
			categoryName = p.Category.Name
		}
		taxFree := ""
		if p.IsTaxFree {
			taxFree = taxFreeLiteralEN
		}

		values := []interface{}{
			p.Brand, p.ModelName, p.ModelNo, categoryName, p.Description,
			p.B2BPrice, p.ConsumerPrice, p.SupplyPrice, p.StockQuantity,
			p.ImageURL, p.DetailURL, p.Manufacturer, p.Origin,
			p.ProductSpec, p.ProductOptions, p.QuantityPerCarton,
			p.ShippingFee, p.ShippingFeeIndividual, p.ShippingFeeCarton,
			taxFree, p.Remarks,
		}
		for col, v := range values {
			f.SetCellValue(sheet, cellAxis(col, rowNum), v)
		}
	}

	if err := f.Write(w); err != nil {
		return 0, err
	}
	return len(products), nil
}

// cellAxis 列序号（0 起）+ 行号 -> "A1" 形式坐标
func cellAxis(col, row int) string {
	// 列序号固定来自导出列表，不会越界
	name, _ := excelize.ColumnNumberToName(col + 1)
	return name + strconv.Itoa(row)
}
