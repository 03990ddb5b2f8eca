package dashboardapi

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/MarkoPoloResearchLab/logidash/pkg/dashboard"
	"github.com/go-playground/validator/v10"
)

type criteriaQuery struct {
	BranchID      string `form:"branchId" binding:"omitempty,numeric|eq=all"`
	BankName      string `form:"bankName" binding:"omitempty,max=200"`
	StateName     string `form:"stateName" binding:"omitempty,max=100"`
	MinBalance    string `form:"minBalance" binding:"omitempty,numeric"`
	MaxBalance    string `form:"maxBalance" binding:"omitempty,numeric"`
	Search        string `form:"search" binding:"omitempty,max=100"`
	Year          string `form:"year" binding:"omitempty,max=7"`
	AccountStatus string `form:"accountStatus" binding:"omitempty,oneof=all active inactive"`
}

func (query criteriaQuery) criteria() (dashboard.FilterCriteria, error) {
	return dashboard.NewFilterCriteria(dashboard.FilterInput{
		BranchID:      query.BranchID,
		BankName:      query.BankName,
		StateName:     query.StateName,
		MinBalance:    query.MinBalance,
		MaxBalance:    query.MaxBalance,
		SearchTerm:    query.Search,
		Year:          query.Year,
		AccountStatus: query.AccountStatus,
	})
}

type tableQuery struct {
	criteriaQuery
	Sort      string `form:"sort" binding:"omitempty,max=20"`
	Direction string `form:"direction" binding:"omitempty,oneof=asc desc"`
	Page      int    `form:"page" binding:"omitempty,min=1"`
	PageSize  int    `form:"pageSize" binding:"omitempty,min=1,max=100"`
}

func (query tableQuery) tableQuery() (dashboard.TableQuery, error) {
	return dashboard.NewTableQuery(query.Sort, query.Direction, query.Page, query.PageSize)
}

var queryTypes = []reflect.Type{reflect.TypeOf(criteriaQuery{}), reflect.TypeOf(tableQuery{})}

// describeBindingError turns validator failures into messages naming the query parameter.
func describeBindingError(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err.Error()
	}
	messages := make([]string, 0, len(validationErrors))
	for _, fieldError := range validationErrors {
		messages = append(messages, fmt.Sprintf("%s failed %q validation", queryParameterName(fieldError.StructField()), fieldError.Tag()))
	}
	return strings.Join(messages, "; ")
}

func queryParameterName(structField string) string {
	for _, queryType := range queryTypes {
		if field, ok := queryType.FieldByName(structField); ok {
			if name := field.Tag.Get("form"); name != "" {
				return name
			}
		}
	}
	return structField
}
