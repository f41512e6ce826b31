package service

import (
	"bytes"
	"context"
	"io"
	"strconv"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"scm_dev_v1_202608/internal/model"
	"scm_dev_v1_202608/internal/repository"
)

func setupImportTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}

	err = db.AutoMigrate(&model.Category{}, &model.Product{}, &model.QuoteItem{})
	if err != nil {
		t.Fatalf("数据库迁移失败: %v", err)
	}
	return db
}

func newImportService(db *gorm.DB) *ImportService {
	return NewImportService(db,
		repository.NewProductRepository(db),
		repository.NewCategoryRepository(db),
		nil, // 测试不挂缓存
	)
}

// makeWorkbook 在内存里拼一个单 sheet 工作簿
func makeWorkbook(t *testing.T, headers []string, rows [][]string) io.Reader {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	sheet := "Sheet1"
	for col, h := range headers {
		name, _ := excelize.ColumnNumberToName(col + 1)
		f.SetCellValue(sheet, name+"1", h)
	}
	for i, row := range rows {
		for col, v := range row {
			name, _ := excelize.ColumnNumberToName(col + 1)
			f.SetCellValue(sheet, name+strconv.Itoa(i+2), v)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("生成测试工作簿失败: %v", err)
	}
	return bytes.NewReader(buf.Bytes())
}

var importHeaders = []string{"브랜드", "모델명", "모델번호", "카테고리", "실판매가", "소비자가", "공급가", "재고"}

func TestImportWorkbook_Insert(t *testing.T) {
	db := setupImportTestDB(t)
	svc := newImportService(db)
	ctx := context.Background()

	r := makeWorkbook(t, importHeaders, [][]string{
		{"ACME", "MX-100", "A100", "주방용품", "10,000원", "15,000원", "", "5"},
		{"ACME", "MX-200", "A200", "주방용품", "20,000", "25,000", "18,000", "3"},
	})

	result, err := svc.ImportWorkbook(ctx, r, ImportModeAll)
	if err != nil {
		t.Fatalf("ImportWorkbook() error = %v", err)
	}
	if result.Success != 2 || result.Failed != 0 {
		t.Fatalf("success=%d failed=%d, want 2/0", result.Success, result.Failed)
	}

	var products []model.Product
	if err := db.Order("id ASC").Find(&products).Error; err != nil {
		t.Fatalf("查询商品失败: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("商品数 = %d, want 2", len(products))
	}

	p := products[0]
	if p.B2BPrice != 10000 || p.ConsumerPrice != 15000 {
		t.Errorf("价格解析错误: b2b=%d consumer=%d", p.B2BPrice, p.ConsumerPrice)
	}
	if p.SupplyPrice != 10000 {
		t.Errorf("공급가应回落到실판매가: %d", p.SupplyPrice)
	}
	if !p.IsAvailable {
		t.Error("新导入商品应默认上架")
	}
	if p.CategoryID == nil {
		t.Fatal("分类未挂接")
	}

	// 同批两行同分类只建一条分类
	var catCount int64
	db.Model(&model.Category{}).Count(&catCount)
	if catCount != 1 {
		t.Errorf("分类数 = %d, want 1", catCount)
	}
	if products[1].SupplyPrice != 18000 {
		t.Errorf("给定공급가不应被覆盖: %d", products[1].SupplyPrice)
	}
}

func TestImportWorkbook_RowFailureDoesNotAbortBatch(t *testing.T) {
	db := setupImportTestDB(t)
	svc := newImportService(db)

	r := makeWorkbook(t, importHeaders, [][]string{
		{"ACME", "MX-100", "", "", "10000", "", "", ""},
		{"ACME", "", "", "", "9999", "", "", ""}, // 模델명缺失
		{"ACME", "MX-300", "", "", "30000", "", "", ""},
	})

	result, err := svc.ImportWorkbook(context.Background(), r, ImportModeAll)
	if err != nil {
		t.Fatalf("ImportWorkbook() error = %v", err)
	}
	if result.Success != 2 || result.Failed != 1 {
		t.Fatalf("success=%d failed=%d, want 2/1", result.Success, result.Failed)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("errors = %v, want 1 entry", result.Errors)
	}
	// 表头占第 1 行，坏行是第 3 行
	if result.Errors[0] != "Row 3: Model Name is required" {
		t.Errorf("error = %q", result.Errors[0])
	}

	// 坏行的写入被 SAVEPOINT 回滚，好行照常落库
	var count int64
	db.Model(&model.Product{}).Count(&count)
	if count != 2 {
		t.Errorf("商品数 = %d, want 2", count)
	}
	var bad int64
	db.Model(&model.Product{}).Where("b2b_price = ?", 9999).Count(&bad)
	if bad != 0 {
		t.Error("失败行不应落库")
	}
}

func TestImportWorkbook_ModeNew(t *testing.T) {
	db := setupImportTestDB(t)
	svc := newImportService(db)
	ctx := context.Background()

	seed := &model.Product{ModelName: "MX-100", ModelNo: "A100", B2BPrice: 1000}
	if err := db.Create(seed).Error; err != nil {
		t.Fatalf("种子商品失败: %v", err)
	}

	r := makeWorkbook(t, importHeaders, [][]string{
		{"ACME", "MX-100", "A100", "", "99,999", "", "", ""}, // 命中，new 模式跳过
		{"ACME", "MX-NEW", "", "", "5000", "", "", ""},       // 未命中，插入
	})

	result, err := svc.ImportWorkbook(ctx, r, ImportModeNew)
	if err != nil {
		t.Fatalf("ImportWorkbook() error = %v", err)
	}
	// 跳过行既不算成功也不算失败
	if result.Success != 1 || result.Failed != 0 {
		t.Fatalf("success=%d failed=%d, want 1/0", result.Success, result.Failed)
	}

	var existing model.Product
	db.First(&existing, seed.ID)
	if existing.B2BPrice != 1000 {
		t.Errorf("new 模式不应更新既有商品: b2b=%d", existing.B2BPrice)
	}
	var count int64
	db.Model(&model.Product{}).Count(&count)
	if count != 2 {
		t.Errorf("商品数 = %d, want 2", count)
	}
}

func TestImportWorkbook_ModeUpdate(t *testing.T) {
	db := setupImportTestDB(t)
	svc := newImportService(db)
	ctx := context.Background()

	seed := &model.Product{ModelName: "MX-100", ModelNo: "A100", B2BPrice: 1000}
	if err := db.Create(seed).Error; err != nil {
		t.Fatalf("种子商品失败: %v", err)
	}

	r := makeWorkbook(t, importHeaders, [][]string{
		{"ACME", "MX-100", "A100", "", "2,000", "", "", ""}, // 命中，更新
		{"ACME", "MX-NEW", "", "", "5000", "", "", ""},      // 未命中，update 模式跳过
	})

	result, err := svc.ImportWorkbook(ctx, r, ImportModeUpdate)
	if err != nil {
		t.Fatalf("ImportWorkbook() error = %v", err)
	}
	if result.Success != 1 || result.Failed != 0 {
		t.Fatalf("success=%d failed=%d, want 1/0", result.Success, result.Failed)
	}

	var existing model.Product
	db.First(&existing, seed.ID)
	if existing.B2BPrice != 2000 {
		t.Errorf("update 模式应更新命中商品: b2b=%d", existing.B2BPrice)
	}
	var count int64
	db.Model(&model.Product{}).Count(&count)
	if count != 1 {
		t.Errorf("商品数 = %d, want 1（未命中行不插入）", count)
	}
}

func TestImportWorkbook_ModeAllIdempotent(t *testing.T) {
	db := setupImportTestDB(t)
	svc := newImportService(db)
	ctx := context.Background()

	rows := [][]string{{"ACME", "MX-100", "A100", "주방용품", "10000", "", "", "5"}}

	for i := 0; i < 2; i++ {
		result, err := svc.ImportWorkbook(ctx, makeWorkbook(t, importHeaders, rows), ImportModeAll)
		if err != nil {
			t.Fatalf("第 %d 次导入失败: %v", i+1, err)
		}
		if result.Success != 1 {
			t.Fatalf("第 %d 次 success = %d, want 1", i+1, result.Success)
		}
	}

	// 同一文件重复导入不产生重复商品
	var count int64
	db.Model(&model.Product{}).Count(&count)
	if count != 1 {
		t.Errorf("商品数 = %d, want 1", count)
	}
}

func TestImportWorkbook_MatchesLowestID(t *testing.T) {
	db := setupImportTestDB(t)
	svc := newImportService(db)
	ctx := context.Background()

	// 历史脏数据：同名商品两条
	first := &model.Product{ModelName: "MX-DUP", B2BPrice: 1}
	second := &model.Product{ModelName: "MX-DUP", B2BPrice: 2}
	db.Create(first)
	db.Create(second)

	r := makeWorkbook(t, importHeaders, [][]string{
		{"ACME", "MX-DUP", "", "", "7,777", "", "", ""},
	})
	if _, err := svc.ImportWorkbook(ctx, r, ImportModeUpdate); err != nil {
		t.Fatalf("ImportWorkbook() error = %v", err)
	}

	var p1, p2 model.Product
	db.First(&p1, first.ID)
	db.First(&p2, second.ID)
	if p1.B2BPrice != 7777 {
		t.Errorf("应更新最小 ID 的一条: b2b=%d", p1.B2BPrice)
	}
	if p2.B2BPrice != 2 {
		t.Errorf("较大 ID 的一条不应被动: b2b=%d", p2.B2BPrice)
	}
}

func TestImportWorkbook_CategoryKeptWhenColumnEmpty(t *testing.T) {
	db := setupImportTestDB(t)
	svc := newImportService(db)
	ctx := context.Background()

	cat := &model.Category{Name: "주방용품", Slug: "주방용품"}
	db.Create(cat)
	seed := &model.Product{ModelName: "MX-100", CategoryID: &cat.ID}
	db.Create(seed)

	r := makeWorkbook(t, importHeaders, [][]string{
		{"ACME", "MX-100", "", "", "5000", "", "", ""}, // 分类列为空
	})
	if _, err := svc.ImportWorkbook(ctx, r, ImportModeAll); err != nil {
		t.Fatalf("ImportWorkbook() error = %v", err)
	}

	var existing model.Product
	db.First(&existing, seed.ID)
	if existing.CategoryID == nil || *existing.CategoryID != cat.ID {
		t.Error("分类列为空时应保留既有分类")
	}
}

func TestImportWorkbook_EmptySheet(t *testing.T) {
	db := setupImportTestDB(t)
	svc := newImportService(db)

	r := makeWorkbook(t, importHeaders, nil)
	result, err := svc.ImportWorkbook(context.Background(), r, ImportModeAll)
	if err != nil {
		t.Fatalf("ImportWorkbook() error = %v", err)
	}
	if result.Success != 0 || result.Failed != 0 || len(result.Errors) != 0 {
		t.Errorf("空表应返回全零结果: %+v", result)
	}
}

func TestImportWorkbook_BadFile(t *testing.T) {
	db := setupImportTestDB(t)
	svc := newImportService(db)

	_, err := svc.ImportWorkbook(context.Background(), strings.NewReader("not an xlsx"), ImportModeAll)
	if err == nil {
		t.Fatal("坏文件应返回批级错误")
	}
}
