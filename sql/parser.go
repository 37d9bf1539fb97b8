package sql

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/nickyhof/TemporalDB/core"
)

type StatementType int

const (
	SelectStatementType StatementType = iota
	InsertStatementType
	UpdateStatementType
	DeleteStatementType
	HistoryStatementType
	CreateTableStatementType
	DropTableStatementType
	CreateViewStatementType
	DropViewStatementType
	BeginStatementType
	CommitStatementType
	RollbackStatementType
	DescribeStatementType
	ShowTablesStatementType
	ShowViewsStatementType
	SnapshotStatementType
	TransactionsStatementType
	ExportStatementType
	ImportStatementType
)

type Statement interface {
	Type() StatementType
}

// SelectStatement is a point-in-time query. AsOf nil means now; FromView
// resolves the table and pinned timestamp from a saved view.
type SelectStatement struct {
	Table    string
	FromView bool
	Columns  []string
	AsOf     *time.Time
	Where    WhereClause
	OrderBy  []OrderByClause
	Limit    int
	Offset   int
}

// InsertStatement appends a revision. At nil means now; a future At schedules
// the row. OrReplace is accepted and redundant: inserts on an existing entity
// replace by default.
type InsertStatement struct {
	Table     string
	Columns   []string
	Values    []string
	OrReplace bool
	At        *time.Time
}

type UpdateStatement struct {
	Table   string
	Updates []SetClause
	Where   WhereClause
	At      *time.Time
}

type SetClause struct {
	Column string
	Value  string
}

type DeleteStatement struct {
	Table string
	Where WhereClause
	At    *time.Time
}

// HistoryStatement lists the full revision timeline of one entity
type HistoryStatement struct {
	Table string
	Where WhereClause
}

type CreateTableStatement struct {
	Table   string
	Columns []core.Column
}

type DropTableStatement struct {
	Table string
}

// CreateViewStatement pins a table query at a timestamp
type CreateViewStatement struct {
	Name    string
	Table   string
	Columns []string
	AsOf    time.Time
}

type DropViewStatement struct {
	Name string
}

type BeginStatement struct{}
type CommitStatement struct{}
type RollbackStatement struct{}

type DescribeStatement struct {
	Table string
}

type ShowTablesStatement struct{}

type ShowViewsStatement struct{}

type SnapshotStatement struct {
	Name string
}

type TransactionsStatement struct {
	Since *time.Time
}

type ExportStatement struct {
	Table string
	URL   string
}

type ImportStatement struct {
	URL   string
	Table string
}

type WhereClause struct {
	Conditions []WhereCondition // joined by AND
}

type WhereCondition struct {
	Left     string
	Operator WhereOperator
	Right    string
}

type WhereOperator int

const (
	EqualsOperator WhereOperator = iota
	NotEqualsOperator
	LessThanOperator
	GreaterThanOperator
	LessThanOrEqualOperator
	GreaterThanOrEqualOperator
)

type OrderByClause struct {
	Column     string
	Descending bool
}

func (s SelectStatement) Type() StatementType {
	return SelectStatementType
}

func (s InsertStatement) Type() StatementType {
	return InsertStatementType
}

func (s UpdateStatement) Type() StatementType {
	return UpdateStatementType
}

func (s DeleteStatement) Type() StatementType {
	return DeleteStatementType
}

func (s HistoryStatement) Type() StatementType {
	return HistoryStatementType
}

func (s CreateTableStatement) Type() StatementType {
	return CreateTableStatementType
}

func (s DropTableStatement) Type() StatementType {
	return DropTableStatementType
}

func (s CreateViewStatement) Type() StatementType {
	return CreateViewStatementType
}

func (s DropViewStatement) Type() StatementType {
	return DropViewStatementType
}

func (s BeginStatement) Type() StatementType {
	return BeginStatementType
}

func (s CommitStatement) Type() StatementType {
	return CommitStatementType
}

func (s RollbackStatement) Type() StatementType {
	return RollbackStatementType
}

func (s DescribeStatement) Type() StatementType {
	return DescribeStatementType
}

func (s ShowTablesStatement) Type() StatementType {
	return ShowTablesStatementType
}

func (s ShowViewsStatement) Type() StatementType {
	return ShowViewsStatementType
}

func (s SnapshotStatement) Type() StatementType {
	return SnapshotStatementType
}

func (s TransactionsStatement) Type() StatementType {
	return TransactionsStatementType
}

func (s ExportStatement) Type() StatementType {
	return ExportStatementType
}

func (s ImportStatement) Type() StatementType {
	return ImportStatementType
}

type Parser struct {
	lexer *Lexer
}

func NewParser(sql string) *Parser {
	lexer := NewLexer(sql)
	return &Parser{lexer: lexer}
}

func (parser *Parser) Parse() (Statement, error) {
	token := parser.lexer.NextToken()
	switch token.Type {
	case Select:
		return ParseSelect(parser)
	case Insert:
		return ParseInsert(parser)
	case Update:
		return ParseUpdate(parser)
	case Delete:
		return ParseDelete(parser)
	case History:
		return ParseHistory(parser)
	case Create:
		return ParseCreate(parser)
	case Drop:
		return ParseDrop(parser)
	case Begin:
		return BeginStatement{}, nil
	case Commit:
		return CommitStatement{}, nil
	case Rollback:
		return RollbackStatement{}, nil
	case Describe:
		return ParseDescribe(parser)
	case Show:
		return ParseShow(parser)
	case Snapshot:
		return ParseSnapshot(parser)
	case Transactions:
		return ParseTransactions(parser)
	case Export:
		return ParseExport(parser)
	case Import:
		return ParseImport(parser)
	default:
		return nil, errors.New("unknown statement type")
	}
}

// timestampFormats are accepted in AS OF / AT / SINCE literals, tried in
// order. A bare date means midnight UTC.
var timestampFormats = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02",
}

// ParseTimestamp parses a timestamp literal
func ParseTimestamp(value string) (time.Time, error) {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse timestamp '%s'", value)
}

func ParseSelect(parser *Parser) (Statement, error) {
	var selectStatement SelectStatement

	token := parser.lexer.NextToken()

	if token.Type == Wildcard {
		selectStatement.Columns = []string{}
		token = parser.lexer.NextToken()
		if token.Type != From {
			return nil, errors.New("expected FROM after '*'")
		}
	} else if token.Type == Identifier {
		selectStatement.Columns = append(selectStatement.Columns, token.Value)
		for {
			token = parser.lexer.NextToken()
			if token.Type == Comma {
				token = parser.lexer.NextToken()
				if token.Type != Identifier {
					return nil, errors.New("expected identifier after comma")
				}
				selectStatement.Columns = append(selectStatement.Columns, token.Value)
			} else if token.Type == From {
				break
			} else {
				return nil, errors.New("expected FROM or comma")
			}
		}
	} else {
		return nil, errors.New("expected '*' or column list")
	}

	token = parser.lexer.NextToken()
	if token.Type == ViewIdentifier {
		selectStatement.FromView = true
		token = parser.lexer.NextToken()
	}
	if token.Type != Identifier {
		return nil, errors.New("expected table name after FROM")
	}
	selectStatement.Table = token.Value

	// Optional clauses in order: AS OF, WHERE, ORDER BY, LIMIT, OFFSET
	token = parser.lexer.NextToken()

	if token.Type == As {
		token = parser.lexer.NextToken()
		if token.Type != Of {
			return nil, errors.New("expected OF after AS")
		}
		token = parser.lexer.NextToken()
		if token.Type != String {
			return nil, errors.New("expected timestamp literal after AS OF")
		}
		asof, err := ParseTimestamp(token.Value)
		if err != nil {
			return nil, err
		}
		selectStatement.AsOf = &asof
		token = parser.lexer.NextToken()
	}

	if token.Type == Where {
		where, next, err := parseWhere(parser)
		if err != nil {
			return nil, err
		}
		selectStatement.Where = where
		token = next
	}

	if token.Type == Order {
		token = parser.lexer.NextToken()
		if token.Type != By {
			return nil, errors.New("expected BY after ORDER")
		}
		for {
			token = parser.lexer.NextToken()
			if token.Type != Identifier {
				return nil, errors.New("expected column name in ORDER BY")
			}
			clause := OrderByClause{Column: token.Value}

			token = parser.lexer.NextToken()
			if token.Type == Asc {
				token = parser.lexer.NextToken()
			} else if token.Type == Desc {
				clause.Descending = true
				token = parser.lexer.NextToken()
			}

			selectStatement.OrderBy = append(selectStatement.OrderBy, clause)

			if token.Type != Comma {
				break
			}
		}
	}

	if token.Type == Limit {
		token = parser.lexer.NextToken()
		if token.Type != Int {
			return nil, errors.New("expected integer after LIMIT")
		}
		limit, err := strconv.Atoi(token.Value)
		if err != nil {
			return nil, err
		}
		selectStatement.Limit = limit
		token = parser.lexer.NextToken()
	}

	if token.Type == Offset {
		token = parser.lexer.NextToken()
		if token.Type != Int {
			return nil, errors.New("expected integer after OFFSET")
		}
		offset, err := strconv.Atoi(token.Value)
		if err != nil {
			return nil, err
		}
		selectStatement.Offset = offset
		token = parser.lexer.NextToken()
	}

	if token.Type != EOF {
		return nil, errors.New("unexpected token after SELECT statement: " + token.String())
	}

	return selectStatement, nil
}

func ParseInsert(parser *Parser) (Statement, error) {
	var insertStatement InsertStatement

	token := parser.lexer.NextToken()
	if token.Type == Or {
		token = parser.lexer.NextToken()
		if token.Type != Replace {
			return nil, errors.New("expected REPLACE after INSERT OR")
		}
		insertStatement.OrReplace = true
		token = parser.lexer.NextToken()
	}

	if token.Type != Into {
		return nil, errors.New("expected INTO")
	}

	token = parser.lexer.NextToken()
	if token.Type != Identifier {
		return nil, errors.New("expected table name after INTO")
	}
	insertStatement.Table = token.Value

	token = parser.lexer.NextToken()
	if token.Type == ParenOpen {
		for {
			token = parser.lexer.NextToken()
			if token.Type != Identifier {
				return nil, errors.New("expected column name")
			}
			insertStatement.Columns = append(insertStatement.Columns, token.Value)

			token = parser.lexer.NextToken()
			if token.Type == ParenClose {
				break
			}
			if token.Type != Comma {
				return nil, errors.New("expected ',' or ')' in column list")
			}
		}
		token = parser.lexer.NextToken()
	}

	if token.Type != Values {
		return nil, errors.New("expected VALUES")
	}

	token = parser.lexer.NextToken()
	if token.Type != ParenOpen {
		return nil, errors.New("expected '(' after VALUES")
	}

	for {
		token = parser.lexer.NextToken()
		switch token.Type {
		case String, Int, Float, True, False, Identifier:
			insertStatement.Values = append(insertStatement.Values, token.Value)
		default:
			return nil, errors.New("expected value in VALUES list")
		}

		token = parser.lexer.NextToken()
		if token.Type == ParenClose {
			break
		}
		if token.Type != Comma {
			return nil, errors.New("expected ',' or ')' in VALUES list")
		}
	}

	token = parser.lexer.NextToken()
	at, token, err := parseAt(parser, token)
	if err != nil {
		return nil, err
	}
	insertStatement.At = at

	if token.Type != EOF {
		return nil, errors.New("unexpected token after INSERT statement: " + token.String())
	}

	if len(insertStatement.Columns) > 0 && len(insertStatement.Columns) != len(insertStatement.Values) {
		return nil, errors.New("column count does not match value count")
	}

	return insertStatement, nil
}

func ParseUpdate(parser *Parser) (Statement, error) {
	var updateStatement UpdateStatement

	token := parser.lexer.NextToken()
	if token.Type != Identifier {
		return nil, errors.New("expected table name after UPDATE")
	}
	updateStatement.Table = token.Value

	token = parser.lexer.NextToken()
	if token.Type != Set {
		return nil, errors.New("expected SET")
	}

	for {
		token = parser.lexer.NextToken()
		if token.Type != Identifier {
			return nil, errors.New("expected column name in SET")
		}
		clause := SetClause{Column: token.Value}

		token = parser.lexer.NextToken()
		if token.Type != Equals {
			return nil, errors.New("expected '=' in SET")
		}

		token = parser.lexer.NextToken()
		switch token.Type {
		case String, Int, Float, True, False, Identifier:
			clause.Value = token.Value
		default:
			return nil, errors.New("expected value in SET")
		}
		updateStatement.Updates = append(updateStatement.Updates, clause)

		token = parser.lexer.NextToken()
		if token.Type != Comma {
			break
		}
	}

	if token.Type != Where {
		return nil, errors.New("expected WHERE in UPDATE")
	}

	where, token, err := parseWhere(parser)
	if err != nil {
		return nil, err
	}
	updateStatement.Where = where

	at, token, err := parseAt(parser, token)
	if err != nil {
		return nil, err
	}
	updateStatement.At = at

	if token.Type != EOF {
		return nil, errors.New("unexpected token after UPDATE statement: " + token.String())
	}

	return updateStatement, nil
}

func ParseDelete(parser *Parser) (Statement, error) {
	var deleteStatement DeleteStatement

	token := parser.lexer.NextToken()
	if token.Type != From {
		return nil, errors.New("expected FROM after DELETE")
	}

	token = parser.lexer.NextToken()
	if token.Type != Identifier {
		return nil, errors.New("expected table name after FROM")
	}
	deleteStatement.Table = token.Value

	token = parser.lexer.NextToken()
	if token.Type != Where {
		return nil, errors.New("expected WHERE in DELETE")
	}

	where, token, err := parseWhere(parser)
	if err != nil {
		return nil, err
	}
	deleteStatement.Where = where

	at, token, err := parseAt(parser, token)
	if err != nil {
		return nil, err
	}
	deleteStatement.At = at

	if token.Type != EOF {
		return nil, errors.New("unexpected token after DELETE statement: " + token.String())
	}

	return deleteStatement, nil
}

func ParseHistory(parser *Parser) (Statement, error) {
	var historyStatement HistoryStatement

	token := parser.lexer.NextToken()
	if token.Type != Identifier {
		return nil, errors.New("expected table name after HISTORY")
	}
	historyStatement.Table = token.Value

	token = parser.lexer.NextToken()
	if token.Type != Where {
		return nil, errors.New("expected WHERE in HISTORY")
	}

	where, token, err := parseWhere(parser)
	if err != nil {
		return nil, err
	}
	historyStatement.Where = where

	if token.Type != EOF {
		return nil, errors.New("unexpected token after HISTORY statement: " + token.String())
	}

	return historyStatement, nil
}

func ParseCreate(parser *Parser) (Statement, error) {
	token := parser.lexer.NextToken()
	switch token.Type {
	case TableIdentifier:
		return ParseCreateTable(parser)
	case ViewIdentifier:
		return ParseCreateView(parser)
	default:
		return nil, errors.New("expected TABLE or VIEW after CREATE")
	}
}

func ParseCreateTable(parser *Parser) (Statement, error) {
	var createStatement CreateTableStatement

	token := parser.lexer.NextToken()
	if token.Type != Identifier {
		return nil, errors.New("expected table name")
	}
	createStatement.Table = token.Value

	token = parser.lexer.NextToken()
	if token.Type != ParenOpen {
		return nil, errors.New("expected '(' after table name")
	}

	for {
		token = parser.lexer.NextToken()
		if token.Type != Identifier {
			return nil, errors.New("expected column name")
		}
		column := core.Column{Name: token.Value}

		token = parser.lexer.NextToken()
		if token.Type != Identifier {
			return nil, errors.New("expected column type")
		}
		columnType, err := parseColumnType(token.Value)
		if err != nil {
			return nil, err
		}
		column.Type = columnType

		token = parser.lexer.NextToken()
		if token.Type == PrimaryKey {
			column.PrimaryKey = true
			token = parser.lexer.NextToken()
		}

		createStatement.Columns = append(createStatement.Columns, column)

		if token.Type == ParenClose {
			break
		}
		if token.Type != Comma {
			return nil, errors.New("expected ',' or ')' in column definitions")
		}
	}

	return createStatement, nil
}

func ParseCreateView(parser *Parser) (Statement, error) {
	var createStatement CreateViewStatement

	token := parser.lexer.NextToken()
	if token.Type != Identifier {
		return nil, errors.New("expected view name")
	}
	createStatement.Name = token.Value

	token = parser.lexer.NextToken()
	if token.Type != As {
		return nil, errors.New("expected AS after view name")
	}

	token = parser.lexer.NextToken()
	if token.Type != Select {
		return nil, errors.New("expected SELECT in view definition")
	}

	inner, err := ParseSelect(parser)
	if err != nil {
		return nil, err
	}

	selectStatement := inner.(SelectStatement)
	if selectStatement.AsOf == nil {
		return nil, errors.New("view definition requires AS OF")
	}
	if selectStatement.FromView {
		return nil, errors.New("views cannot be defined over views")
	}
	if len(selectStatement.Where.Conditions) > 0 || len(selectStatement.OrderBy) > 0 ||
		selectStatement.Limit > 0 || selectStatement.Offset > 0 {
		return nil, errors.New("view definition supports only column list and AS OF")
	}

	createStatement.Table = selectStatement.Table
	createStatement.Columns = selectStatement.Columns
	createStatement.AsOf = *selectStatement.AsOf

	return createStatement, nil
}

func ParseDrop(parser *Parser) (Statement, error) {
	token := parser.lexer.NextToken()
	switch token.Type {
	case TableIdentifier:
		token = parser.lexer.NextToken()
		if token.Type != Identifier {
			return nil, errors.New("expected table name")
		}
		return DropTableStatement{Table: token.Value}, nil
	case ViewIdentifier:
		token = parser.lexer.NextToken()
		if token.Type != Identifier {
			return nil, errors.New("expected view name")
		}
		return DropViewStatement{Name: token.Value}, nil
	default:
		return nil, errors.New("expected TABLE or VIEW after DROP")
	}
}

func ParseDescribe(parser *Parser) (Statement, error) {
	token := parser.lexer.NextToken()
	if token.Type != Identifier {
		return nil, errors.New("expected table name after DESCRIBE")
	}
	return DescribeStatement{Table: token.Value}, nil
}

func ParseShow(parser *Parser) (Statement, error) {
	token := parser.lexer.NextToken()
	switch token.Type {
	case TablesIdentifier:
		return ShowTablesStatement{}, nil
	case ViewsIdentifier:
		return ShowViewsStatement{}, nil
	default:
		return nil, errors.New("expected TABLES or VIEWS after SHOW")
	}
}

func ParseSnapshot(parser *Parser) (Statement, error) {
	token := parser.lexer.NextToken()
	if token.Type != String {
		return nil, errors.New("expected snapshot name literal")
	}
	return SnapshotStatement{Name: token.Value}, nil
}

func ParseTransactions(parser *Parser) (Statement, error) {
	var transactionsStatement TransactionsStatement

	token := parser.lexer.NextToken()
	if token.Type == Since {
		token = parser.lexer.NextToken()
		if token.Type != String {
			return nil, errors.New("expected timestamp literal after SINCE")
		}
		since, err := ParseTimestamp(token.Value)
		if err != nil {
			return nil, err
		}
		transactionsStatement.Since = &since
		token = parser.lexer.NextToken()
	}

	if token.Type != EOF {
		return nil, errors.New("unexpected token after TRANSACTIONS statement: " + token.String())
	}

	return transactionsStatement, nil
}

func ParseExport(parser *Parser) (Statement, error) {
	var exportStatement ExportStatement

	token := parser.lexer.NextToken()
	if token.Type != Identifier {
		return nil, errors.New("expected table name after EXPORT")
	}
	exportStatement.Table = token.Value

	token = parser.lexer.NextToken()
	if token.Type != To {
		return nil, errors.New("expected TO in EXPORT")
	}

	token = parser.lexer.NextToken()
	if token.Type != String {
		return nil, errors.New("expected URL literal after TO")
	}
	exportStatement.URL = token.Value

	return exportStatement, nil
}

func ParseImport(parser *Parser) (Statement, error) {
	var importStatement ImportStatement

	token := parser.lexer.NextToken()
	if token.Type != String {
		return nil, errors.New("expected URL literal after IMPORT")
	}
	importStatement.URL = token.Value

	token = parser.lexer.NextToken()
	if token.Type != Into {
		return nil, errors.New("expected INTO in IMPORT")
	}

	token = parser.lexer.NextToken()
	if token.Type != Identifier {
		return nil, errors.New("expected table name after INTO")
	}
	importStatement.Table = token.Value

	return importStatement, nil
}

// parseWhere consumes conditions after WHERE and returns the first
// unconsumed token
func parseWhere(parser *Parser) (WhereClause, Token, error) {
	var where WhereClause

	for {
		token := parser.lexer.NextToken()
		if token.Type != Identifier {
			return where, token, errors.New("expected column name in WHERE")
		}
		condition := WhereCondition{Left: token.Value}

		token = parser.lexer.NextToken()
		switch token.Type {
		case Equals:
			condition.Operator = EqualsOperator
		case NotEquals:
			condition.Operator = NotEqualsOperator
		case LessThan:
			condition.Operator = LessThanOperator
		case GreaterThan:
			condition.Operator = GreaterThanOperator
		case LessThanOrEqual:
			condition.Operator = LessThanOrEqualOperator
		case GreaterThanOrEqual:
			condition.Operator = GreaterThanOrEqualOperator
		default:
			return where, token, errors.New("expected comparison operator in WHERE")
		}

		token = parser.lexer.NextToken()
		switch token.Type {
		case String, Int, Float, True, False, Identifier:
			condition.Right = token.Value
		default:
			return where, token, errors.New("expected value in WHERE")
		}

		where.Conditions = append(where.Conditions, condition)

		token = parser.lexer.NextToken()
		if token.Type != And {
			return where, token, nil
		}
	}
}

// parseAt consumes an optional AT '<timestamp>' clause starting from the
// given token
func parseAt(parser *Parser, token Token) (*time.Time, Token, error) {
	if token.Type != At {
		return nil, token, nil
	}

	token = parser.lexer.NextToken()
	if token.Type != String {
		return nil, token, errors.New("expected timestamp literal after AT")
	}

	at, err := ParseTimestamp(token.Value)
	if err != nil {
		return nil, token, err
	}

	return &at, parser.lexer.NextToken(), nil
}

func parseColumnType(value string) (core.ColumnType, error) {
	switch toUpper(value) {
	case "STRING", "VARCHAR":
		return core.StringType, nil
	case "INT", "INTEGER", "BIGINT":
		return core.IntType, nil
	case "FLOAT", "DOUBLE":
		return core.FloatType, nil
	case "BOOL", "BOOLEAN":
		return core.BoolType, nil
	case "TEXT":
		return core.TextType, nil
	case "TIMESTAMP", "DATETIME":
		return core.TimestampType, nil
	default:
		return core.StringType, fmt.Errorf("unknown column type '%s'", value)
	}
}
