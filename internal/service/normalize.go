package service

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/spf13/cast"
)

// ==================== 表头别名 ====================

// 逻辑字段 -> 候选表头（按优先级排列，英文规范名在前，韩文别名在后）
// 上游 Excel 由韩方多个供应商维护，表头命名不统一，取第一个非空匹配
var headerAliases = map[string][]string{
	"brand":                   {"Brand", "브랜드"},
	"model_name":              {"ModelName", "모델명"},
	"model_no":                {"ModelNo", "모델번호"},
	"category":                {"Category", "카테고리"},
	"description":             {"Description", "상세설명"},
	"b2b_price":               {"B2BPrice", "실판매가", "판매가", "B2B가"},
	"consumer_price":          {"ConsumerPrice", "소비자가", "소가"},
	"supply_price":            {"SupplyPrice", "공급가", "매입가"},
	"stock":                   {"Stock", "재고"},
	"image_url":               {"ImageURL", "이미지URL"},
	"detail_url":              {"DetailURL", "상세페이지URL"},
	"manufacturer":            {"Manufacturer", "제조사"},
	"origin":                  {"Origin", "원산지"},
	"product_spec":            {"ProductSpec", "제품규격"},
	"product_options":         {"ProductOptions", "옵션"},
	"quantity_per_carton":     {"QuantityPerCarton", "카톤수량"},
	"shipping_fee":            {"ShippingFee", "배송비"},
	"shipping_fee_individual": {"ShippingFeeIndividual", "개별배송비"},
	"shipping_fee_carton":     {"ShippingFeeCarton", "카톤배송비"},
	"is_tax_free":             {"IsTaxFree", "면세여부"},
	"remarks":                 {"Remark", "remark", "비고"},
}

// 면세 flag 只认两个字面量，其余一律按应税处理
const taxFreeLiteralEN = "TRUE"
const taxFreeLiteralKR = "면세"

// ErrModelNameRequired 行级校验错误：ModelName 为空
var ErrModelNameRequired = errors.New("Model Name is required")

// ==================== 行记录 ====================

// rawRow 一行原始数据：表头 -> 单元格文本
type rawRow map[string]string

// productRecord 规范化后的候选商品记录
type productRecord struct {
	Brand          string
	ModelName      string
	ModelNo        string
	CategoryName   string
	Description    string
	ProductSpec    string
	ProductOptions string
	Manufacturer   string
	Origin         string
	ImageURL       string
	DetailURL      string
	Remarks        string

	B2BPrice              int64
	ConsumerPrice         int64
	SupplyPrice           int64
	ShippingFee           int64
	ShippingFeeIndividual int64
	ShippingFeeCarton     int64

	StockQuantity     int
	QuantityPerCarton int
	IsTaxFree         bool
}

// ==================== 规范化 ====================

// normalizeRow 把一行原始数据转成规范记录
// 唯一的硬校验是 ModelName 非空，其余字段缺失都有缺省语义
func normalizeRow(row rawRow) (*productRecord, error) {
	rec := &productRecord{
		Brand:          sanitizeCell(row.pick("brand")),
		ModelName:      sanitizeCell(row.pick("model_name")),
		ModelNo:        sanitizeCell(row.pick("model_no")),
		CategoryName:   sanitizeCell(row.pick("category")),
		Description:    sanitizeCell(row.pick("description")),
		ProductSpec:    sanitizeCell(row.pick("product_spec")),
		ProductOptions: sanitizeCell(row.pick("product_options")),
		Manufacturer:   sanitizeCell(row.pick("manufacturer")),
		Origin:         sanitizeCell(row.pick("origin")),
		Remarks:        sanitizeCell(row.pick("remarks")),

		B2BPrice:              parsePrice(row.pick("b2b_price")),
		ConsumerPrice:         parsePrice(row.pick("consumer_price")),
		SupplyPrice:           parsePrice(row.pick("supply_price")),
		ShippingFee:           parsePrice(row.pick("shipping_fee")),
		ShippingFeeIndividual: parsePrice(row.pick("shipping_fee_individual")),
		ShippingFeeCarton:     parsePrice(row.pick("shipping_fee_carton")),

		StockQuantity: int(parsePrice(row.pick("stock"))),
	}

	if rec.ModelName == "" {
		return nil, ErrModelNameRequired
	}

	// 主图列只接受单个 URL；整段 <img> 标签时抽出 src
	rec.ImageURL = extractImageSrc(row.pick("image_url"))

	// 상세페이지 列允许整段 HTML，HTML 时原样保留（去引号会破坏属性语法）
	rawDetail := strings.TrimSpace(row.pick("detail_url"))
	if rawDetail != "" {
		if isHTMLFragment(rawDetail) {
			rec.DetailURL = rawDetail
		} else {
			rec.DetailURL = sanitizeCell(rawDetail)
		}
	}

	// 공급가 缺省回落到 실판매가：没报供货价就按自家 B2B 价进货
	if rec.SupplyPrice == 0 && rec.B2BPrice > 0 {
		rec.SupplyPrice = rec.B2BPrice
	}

	// 개별배송비 缺省回落到旧的通用배송비
	if rec.ShippingFeeIndividual == 0 && rec.ShippingFee > 0 {
		rec.ShippingFeeIndividual = rec.ShippingFee
	}

	rec.QuantityPerCarton = int(parsePrice(row.pick("quantity_per_carton")))
	if rec.QuantityPerCarton == 0 {
		rec.QuantityPerCarton = 1
	}

	taxFlag := strings.TrimSpace(row.pick("is_tax_free"))
	rec.IsTaxFree = taxFlag == taxFreeLiteralEN || taxFlag == taxFreeLiteralKR

	return rec, nil
}

// pick 按别名优先级取第一个非空单元格
func (row rawRow) pick(field string) string {
	for _, key := range headerAliases[field] {
		if v, ok := row[key]; ok && strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// sanitizeCell 去首尾空白并剔除双引号（双引号会破坏下游 CSV/HTML 拼接）
func sanitizeCell(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), `"`, "")
}

var priceCleanRe = regexp.MustCompile(`[,원\s]`)

// parsePrice 价格/数量解析：去千分位逗号和원后缀，非数字一律归零
// Excel 单元格可能给出 "3000.0" 这类浮点文本，整数解析失败后再按浮点截断
func parsePrice(s string) int64 {
	cleaned := priceCleanRe.ReplaceAllString(s, "")
	if cleaned == "" {
		return 0
	}
	if v, err := strconv.ParseInt(cleaned, 10, 64); err == nil {
		return v
	}
	if f, err := cast.ToFloat64E(cleaned); err == nil {
		return int64(f)
	}
	return 0
}

// <img ... src=...>，src 值带引号或裸值均可，大小写不敏感
var imgSrcRe = regexp.MustCompile(`(?i)<img[^>]+src\s*=\s*(?:['"]([^'"]+)['"]|([^\s>]+))`)

// extractImageSrc 从单元格取主图地址
// 单元格可能直接是 URL，也可能是从商城详情页拷来的整段 <img> 标签
func extractImageSrc(raw string) string {
	s := sanitizeCell(raw)
	if s == "" {
		return ""
	}
	m := imgSrcRe.FindStringSubmatch(s)
	if m == nil {
		return s
	}
	url := m[1]
	if url == "" {
		url = m[2]
	}
	// 裸值匹配会把闭合的 /> 一并吞进来
	return strings.TrimRight(url, "/>")
}

var htmlWrapperRe = regexp.MustCompile(`(?s)^<.+>$`)

// isHTMLFragment 判断单元格内容是否为 HTML 片段
func isHTMLFragment(s string) bool {
	return htmlWrapperRe.MatchString(s) ||
		strings.Contains(s, "<img") ||
		strings.Contains(s, "<center")
}

// slugify 分类名 -> URL slug：小写，非字母数字连续段折叠为单个连字符
// 韩文等非 ASCII 字母保留，否则韩文分类名会全部坍缩成同一个 slug
func slugify(name string) string {
	var b strings.Builder
	lastHyphen := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastHyphen = false
		} else if !lastHyphen {
			b.WriteRune('-')
			lastHyphen = true
		}
	}
	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		slug = "etc"
	}
	return slug
}
