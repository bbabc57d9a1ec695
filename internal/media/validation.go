package media

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"net/url"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// 検証エラーのコード。
const (
	// CodeInvalidType は値の型が不正（未指定、文字列でない、数値に変換できない）であることを表す。
	CodeInvalidType = "invalid_type"
	// CodeTooSmall は空文字列、または下限未満の数値であることを表す。
	CodeTooSmall = "too_small"
	// CodeInvalidValue は列挙値以外の値であることを表す。
	CodeInvalidValue = "invalid_value"
	// CodeInvalidFormat はURLなどの書式が不正であることを表す。
	CodeInvalidFormat = "invalid_format"
	// CodeTooBig は値が扱える上限を超えていることを表す。
	CodeTooBig = "too_big"
)

const (
	defaultPage  = 1
	defaultLimit = 10
)

// FieldError は1フィールド分の検証エラー。
type FieldError struct {
	// Path はエラーが発生したフィールドのドット区切りの位置。
	Path string `json:"path"`
	// Message はエラーメッセージ。
	Message string `json:"message"`
	// Code はエラーの種類。
	Code string `json:"code"`
}

// ValidationError は入力値の検証エラーの一覧。
type ValidationError struct {
	// Errors はフィールドごとのエラー。
	Errors []FieldError
}

// Error はエラーメッセージを返す。
func (e *ValidationError) Error() string {
	paths := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		paths = append(paths, fe.Path)
	}
	return "validation failed: " + strings.Join(paths, ", ")
}

// CreateInput はメディア作成リクエストの検証済みの値。
type CreateInput struct {
	Title    *string `json:"title" validate:"required,min=1"`
	Type     *string `json:"type" validate:"required,oneof='Movie' 'TV Show'"`
	Director *string `json:"director" validate:"required,min=1"`
	Budget   *string `json:"budget" validate:"required,min=1"`
	Location *string `json:"location" validate:"required,min=1"`
	Duration *string `json:"duration" validate:"required,min=1"`
	YearTime *string `json:"yearTime" validate:"required,min=1"`
	ImageURL *string `json:"imageUrl" validate:"omitnil,url"`
}

// toMedia は検証済みの値から保存用のレコードを生成する。
func (in CreateInput) toMedia() Media {
	return Media{
		Title:    deref(in.Title),
		Type:     Type(deref(in.Type)),
		Director: deref(in.Director),
		Budget:   deref(in.Budget),
		Location: deref(in.Location),
		Duration: deref(in.Duration),
		YearTime: deref(in.YearTime),
		ImageURL: in.ImageURL,
	}
}

// UpdateInput はメディア更新リクエストの検証済みの値。
// 指定されたフィールドのみを更新する。
type UpdateInput struct {
	Title    *string `json:"title" validate:"omitnil,min=1"`
	Type     *string `json:"type" validate:"omitnil,oneof='Movie' 'TV Show'"`
	Director *string `json:"director" validate:"omitnil,min=1"`
	Budget   *string `json:"budget" validate:"omitnil,min=1"`
	Location *string `json:"location" validate:"omitnil,min=1"`
	Duration *string `json:"duration" validate:"omitnil,min=1"`
	YearTime *string `json:"yearTime" validate:"omitnil,min=1"`
	ImageURL *string `json:"imageUrl" validate:"omitnil,url"`

	// clearImageURL は "imageUrl": null が明示的に指定されたことを表す。
	clearImageURL bool
}

// columns は更新対象のカラムと値を返す。
func (in UpdateInput) columns() map[string]any {
	cols := make(map[string]any)
	set := func(column string, v *string) {
		if v != nil {
			cols[column] = *v
		}
	}
	set("title", in.Title)
	set("type", in.Type)
	set("director", in.Director)
	set("budget", in.Budget)
	set("location", in.Location)
	set("duration", in.Duration)
	set("year_time", in.YearTime)
	set("image_url", in.ImageURL)
	if in.clearImageURL {
		cols["image_url"] = nil
	}
	return cols
}

// Pagination はページングの検証済みパラメータ。
type Pagination struct {
	Page  int `json:"page" validate:"min=1"`
	Limit int `json:"limit" validate:"min=1"`
}

// Offset は0始まりの取得開始位置を返す。
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

// TotalPages は総件数から総ページ数を返す。
func (p Pagination) TotalPages(total int64) int64 {
	limit := int64(p.Limit)
	pages := total / limit
	if total%limit != 0 {
		pages++
	}
	return pages
}

// fieldOrder はエラーを並べる順序。
var fieldOrder = []string{"title", "type", "director", "budget", "location", "duration", "yearTime", "imageUrl", "page", "limit"}

// fieldLabels はエラーメッセージに使うフィールドの表示名。
var fieldLabels = map[string]string{
	"title":    "Title",
	"type":     "Type",
	"director": "Director",
	"budget":   "Budget",
	"location": "Location",
	"duration": "Duration",
	"yearTime": "Year/Time",
	"imageUrl": "Image URL",
	"page":     "Page",
	"limit":    "Limit",
}

var validate = newValidator()

// newValidator はJSONのフィールド名でエラーを報告するvalidatorを生成する。
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ParseCreate はリクエストボディをメディア作成用の値として検証する。
// 検証に失敗した場合は*ValidationErrorを返す。
func ParseCreate(body []byte) (CreateInput, error) {
	fields, err := decodeObject(body)
	if err != nil {
		return CreateInput{}, err
	}

	var errs []FieldError
	in := CreateInput{
		Title:    fields.str("title", &errs),
		Type:     fields.str("type", &errs),
		Director: fields.str("director", &errs),
		Budget:   fields.str("budget", &errs),
		Location: fields.str("location", &errs),
		Duration: fields.str("duration", &errs),
		YearTime: fields.str("yearTime", &errs),
	}
	in.ImageURL, _ = fields.nullableStr("imageUrl", &errs)

	if err := check(in, errs); err != nil {
		return CreateInput{}, err
	}
	return in, nil
}

// ParseUpdate はリクエストボディをメディア更新用の値として検証する。
// すべてのフィールドは省略可能で、空のオブジェクトは何も更新しない。
func ParseUpdate(body []byte) (UpdateInput, error) {
	fields, err := decodeObject(body)
	if err != nil {
		return UpdateInput{}, err
	}

	var errs []FieldError
	in := UpdateInput{
		Title:    fields.str("title", &errs),
		Type:     fields.str("type", &errs),
		Director: fields.str("director", &errs),
		Budget:   fields.str("budget", &errs),
		Location: fields.str("location", &errs),
		Duration: fields.str("duration", &errs),
		YearTime: fields.str("yearTime", &errs),
	}
	in.ImageURL, in.clearImageURL = fields.nullableStr("imageUrl", &errs)

	if err := check(in, errs); err != nil {
		return UpdateInput{}, err
	}
	return in, nil
}

// ParsePagination はクエリパラメータのpageとlimitを検証する。
// 未指定の場合はpage=1、limit=10とする。
func ParsePagination(query url.Values) (Pagination, error) {
	var errs []FieldError
	p := Pagination{
		Page:  queryInt(query, "page", defaultPage, &errs),
		Limit: queryInt(query, "limit", defaultLimit, &errs),
	}

	if err := check(p, errs); err != nil {
		return Pagination{}, err
	}

	// オフセット (page-1)*limit がintに収まらないページは存在し得ない。
	if p.Page-1 > math.MaxInt/p.Limit {
		return Pagination{}, &ValidationError{Errors: []FieldError{{
			Path:    "page",
			Message: "Page is too large for the given limit",
			Code:    CodeTooBig,
		}}}
	}
	return p, nil
}

// queryInt はクエリパラメータを整数に変換する。
// 変換できない場合はエラーを積み、0を返す。
func queryInt(query url.Values, key string, defaultValue int, errs *[]FieldError) int {
	if !query.Has(key) {
		return defaultValue
	}

	n, err := strconv.Atoi(strings.TrimSpace(query.Get(key)))
	if err != nil {
		*errs = append(*errs, FieldError{
			Path:    key,
			Message: "Expected number, received " + strconv.Quote(query.Get(key)),
			Code:    CodeInvalidType,
		})
		return 0
	}
	return n
}

// check は型変換で見つかったエラーとvalidatorのエラーをまとめる。
// 型エラーが出ているフィールドについてはvalidatorのエラーを重ねない。
func check(v any, typeErrs []FieldError) error {
	errs := typeErrs
	failed := make(map[string]bool, len(typeErrs))
	for _, fe := range typeErrs {
		failed[fe.Path] = true
	}

	if err := validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, fe := range verrs {
			if failed[fe.Field()] {
				continue
			}
			errs = append(errs, toFieldError(fe))
		}
	}

	if len(errs) == 0 {
		return nil
	}

	sort.SliceStable(errs, func(i, j int) bool {
		return fieldIndex(errs[i].Path) < fieldIndex(errs[j].Path)
	})
	return &ValidationError{Errors: errs}
}

// toFieldError はvalidatorのエラーをFieldErrorに変換する。
func toFieldError(fe validator.FieldError) FieldError {
	path := fe.Field()
	label := fieldLabels[path]

	switch fe.Tag() {
	case "required":
		return FieldError{Path: path, Message: label + " is required", Code: CodeInvalidType}
	case "min":
		if fe.Kind() == reflect.String {
			return FieldError{Path: path, Message: label + " is required", Code: CodeTooSmall}
		}
		return FieldError{Path: path, Message: label + " must be at least " + fe.Param(), Code: CodeTooSmall}
	case "oneof":
		return FieldError{Path: path, Message: `Type must be "Movie" or "TV Show"`, Code: CodeInvalidValue}
	case "url":
		return FieldError{Path: path, Message: "Invalid URL format for image", Code: CodeInvalidFormat}
	default:
		return FieldError{Path: path, Message: "Invalid " + label, Code: fe.Tag()}
	}
}

func fieldIndex(path string) int {
	for i, name := range fieldOrder {
		if name == path {
			return i
		}
	}
	return len(fieldOrder)
}

// rawObject はJSONオブジェクトをキーごとの未解析の値として保持する。
type rawObject map[string]json.RawMessage

// decodeObject はリクエストボディをJSONオブジェクトとして解析する。
// 空のボディは空オブジェクトとして扱う。
func decodeObject(body []byte) (rawObject, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return rawObject{}, nil
	}

	var obj rawObject
	if err := json.Unmarshal(body, &obj); err != nil || obj == nil {
		return nil, &ValidationError{Errors: []FieldError{{
			Path:    "",
			Message: "Expected object",
			Code:    CodeInvalidType,
		}}}
	}
	return obj, nil
}

// str は文字列フィールドを取り出す。未指定の場合はnilを返す。
// nullや文字列以外の値の場合はエラーを積み、nilを返す。
func (o rawObject) str(key string, errs *[]FieldError) *string {
	raw, ok := o[key]
	if !ok {
		return nil
	}

	var s *string
	if err := json.Unmarshal(raw, &s); err != nil || s == nil {
		*errs = append(*errs, FieldError{
			Path:    key,
			Message: "Expected string, received " + jsonKind(raw),
			Code:    CodeInvalidType,
		})
		return nil
	}
	return s
}

// nullableStr はnullを許容する文字列フィールドを取り出す。
// 2つ目の戻り値はnullが明示的に指定されたかどうかを表す。
func (o rawObject) nullableStr(key string, errs *[]FieldError) (*string, bool) {
	raw, ok := o[key]
	if !ok {
		return nil, false
	}
	if string(bytes.TrimSpace(raw)) == "null" {
		return nil, true
	}
	return o.str(key, errs), false
}

// jsonKind はJSON値の種類を返す。
func jsonKind(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return "undefined"
	}
	switch raw[0] {
	case 'n':
		return "null"
	case 't', 'f':
		return "boolean"
	case '"':
		return "string"
	case '[':
		return "array"
	case '{':
		return "object"
	default:
		return "number"
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
