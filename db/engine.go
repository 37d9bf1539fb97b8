package db

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/nickyhof/TemporalDB/core"
	"github.com/nickyhof/TemporalDB/loader"
	"github.com/nickyhof/TemporalDB/op"
	"github.com/nickyhof/TemporalDB/ps"
	"github.com/nickyhof/TemporalDB/sql"
)

type QueryContext struct {
	Identity core.Identity
	Options  op.Options
}

// Engine executes temporal SQL against a persistence. An engine is a single
// session: BEGIN..COMMIT batching is per engine, not per persistence.
type Engine struct {
	*ps.Persistence
	QueryContext

	inTransaction bool
	batches       map[string]*op.Bulk
}

func NewEngine(persistence *ps.Persistence, identity core.Identity) *Engine {
	return &Engine{
		Persistence:  persistence,
		QueryContext: QueryContext{Identity: identity},
	}
}

func (engine *Engine) Execute(query string) (Result, error) {
	parser := sql.NewParser(query)
	statement, err := parser.Parse()
	if err != nil {
		return nil, err
	}

	switch statement.Type() {
	case sql.SelectStatementType:
		return engine.executeSelectStatement(statement.(sql.SelectStatement))
	case sql.InsertStatementType:
		return engine.executeInsertStatement(statement.(sql.InsertStatement))
	case sql.UpdateStatementType:
		return engine.executeUpdateStatement(statement.(sql.UpdateStatement))
	case sql.DeleteStatementType:
		return engine.executeDeleteStatement(statement.(sql.DeleteStatement))
	case sql.HistoryStatementType:
		return engine.executeHistoryStatement(statement.(sql.HistoryStatement))
	case sql.CreateTableStatementType:
		return engine.executeCreateTableStatement(statement.(sql.CreateTableStatement))
	case sql.DropTableStatementType:
		return engine.executeDropTableStatement(statement.(sql.DropTableStatement))
	case sql.CreateViewStatementType:
		return engine.executeCreateViewStatement(statement.(sql.CreateViewStatement))
	case sql.DropViewStatementType:
		return engine.executeDropViewStatement(statement.(sql.DropViewStatement))
	case sql.BeginStatementType:
		return engine.executeBeginStatement()
	case sql.CommitStatementType:
		return engine.executeCommitStatement()
	case sql.RollbackStatementType:
		return engine.executeRollbackStatement()
	case sql.DescribeStatementType:
		return engine.executeDescribeStatement(statement.(sql.DescribeStatement))
	case sql.ShowTablesStatementType:
		return engine.executeShowTablesStatement()
	case sql.ShowViewsStatementType:
		return engine.executeShowViewsStatement()
	case sql.SnapshotStatementType:
		return engine.executeSnapshotStatement(statement.(sql.SnapshotStatement))
	case sql.TransactionsStatementType:
		return engine.executeTransactionsStatement(statement.(sql.TransactionsStatement))
	case sql.ExportStatementType:
		return engine.executeExportStatement(statement.(sql.ExportStatement))
	case sql.ImportStatementType:
		return engine.executeImportStatement(statement.(sql.ImportStatement))
	default:
		return nil, fmt.Errorf("unsupported statement type: %v", statement.Type())
	}
}

func (engine *Engine) executeSelectStatement(statement sql.SelectStatement) (QueryResult, error) {
	startTime := time.Now()

	tableName := statement.Table
	asof := time.Now()
	if statement.AsOf != nil {
		asof = *statement.AsOf
	}
	columns := statement.Columns

	if statement.FromView {
		view, err := engine.Persistence.GetView(statement.Table)
		if err != nil {
			return QueryResult{}, err
		}
		tableName = view.Table
		asof = view.AsOf
		if len(columns) == 0 {
			columns = view.Columns
		}
	}

	log, err := op.OpenTable(tableName, engine.Persistence)
	if err != nil {
		return QueryResult{}, err
	}

	if len(columns) == 0 {
		for _, column := range log.Table.Columns {
			columns = append(columns, column.Name)
		}
	}

	revisions, err := log.AsOf(asof)
	if err != nil {
		return QueryResult{}, err
	}

	rowsScanned := len(revisions)

	var results []map[string]string
	for _, rev := range revisions {
		results = append(results, rev.Payload)
	}

	if len(statement.Where.Conditions) > 0 {
		var filtered []map[string]string
		for _, row := range results {
			if matchesWhereClause(row, statement.Where) {
				filtered = append(filtered, row)
			}
		}
		results = filtered
	}

	if len(statement.OrderBy) > 0 {
		sortResults(results, statement.OrderBy)
	}

	if statement.Offset > 0 {
		if statement.Offset >= len(results) {
			results = []map[string]string{}
		} else {
			results = results[statement.Offset:]
		}
	}

	if statement.Limit > 0 && len(results) > statement.Limit {
		results = results[:statement.Limit]
	}

	outputData := make([][]string, len(results))
	for i, row := range results {
		outputData[i] = make([]string, len(columns))
		for j, col := range columns {
			outputData[i][j] = row[col]
		}
	}

	return QueryResult{
		Transaction:      engine.Persistence.LatestTransaction(),
		Columns:          columns,
		Data:             outputData,
		RecordsRead:      len(outputData),
		ExecutionTimeSec: time.Since(startTime).Seconds(),
		ExecutionOps:     rowsScanned,
	}, nil
}

func (engine *Engine) executeInsertStatement(statement sql.InsertStatement) (CommitResult, error) {
	startTime := time.Now()

	log, err := op.OpenTable(statement.Table, engine.Persistence)
	if err != nil {
		return CommitResult{}, err
	}

	columns := statement.Columns
	if len(columns) == 0 {
		for _, column := range log.Table.Columns {
			columns = append(columns, column.Name)
		}
	}

	if len(columns) != len(statement.Values) {
		return CommitResult{}, fmt.Errorf("statement value count does not match column count")
	}

	payload := make(map[string]string, len(columns))
	for index, column := range columns {
		payload[column] = statement.Values[index]
	}

	entity, err := engine.entityFromPayload(log, payload)
	if err != nil {
		return CommitResult{}, err
	}

	if engine.inTransaction {
		bulk, err := engine.bulkFor(statement.Table)
		if err != nil {
			return CommitResult{}, err
		}
		bulk.Insert(entity, payload, statement.At)
		return CommitResult{
			Staged:           1,
			ExecutionTimeSec: time.Since(startTime).Seconds(),
			ExecutionOps:     1,
		}, nil
	}

	mutator := engine.mutator(log)
	if statement.OrReplace {
		mutator.Options.OnDuplicateIdentifier = op.AllowAsUpdate
	}

	_, txn, err := mutator.Insert(entity, payload, statement.At)
	if err != nil {
		return CommitResult{}, err
	}

	return CommitResult{
		Transaction:      txn,
		RevisionsWritten: 1,
		ExecutionTimeSec: time.Since(startTime).Seconds(),
		ExecutionOps:     1,
	}, nil
}

func (engine *Engine) executeUpdateStatement(statement sql.UpdateStatement) (CommitResult, error) {
	startTime := time.Now()

	log, err := op.OpenTable(statement.Table, engine.Persistence)
	if err != nil {
		return CommitResult{}, err
	}

	pk, entity, err := engine.entityFromWhere(log, statement.Where)
	if err != nil {
		return CommitResult{}, err
	}

	set := make(map[string]string, len(statement.Updates))
	var newEntityId *int64
	for _, update := range statement.Updates {
		set[update.Column] = update.Value
		if update.Column == pk {
			parsed, err := strconv.ParseInt(update.Value, 10, 64)
			if err != nil {
				return CommitResult{}, fmt.Errorf("primary key value '%s' is not an integer", update.Value)
			}
			newEntityId = &parsed
		}
	}

	if engine.inTransaction {
		if newEntityId != nil && *newEntityId != entity {
			return CommitResult{}, fmt.Errorf("identity change is not supported inside BEGIN")
		}

		when := time.Now()
		if statement.At != nil {
			when = *statement.At
		}
		current, err := log.AsOfEntity(when, entity)
		if err != nil {
			return CommitResult{}, err
		}
		if current == nil {
			return CommitResult{}, fmt.Errorf("entity %d has no active revision at %s", entity, when)
		}

		merged := make(map[string]string, len(current.Payload)+len(set))
		for key, value := range current.Payload {
			merged[key] = value
		}
		for key, value := range set {
			merged[key] = value
		}

		bulk, err := engine.bulkFor(statement.Table)
		if err != nil {
			return CommitResult{}, err
		}
		bulk.Insert(&entity, merged, statement.At)
		return CommitResult{
			Staged:           1,
			ExecutionTimeSec: time.Since(startTime).Seconds(),
			ExecutionOps:     1,
		}, nil
	}

	mutator := engine.mutator(log)
	_, txn, err := mutator.Update(entity, set, newEntityId, statement.At)
	if err != nil {
		return CommitResult{}, err
	}

	return CommitResult{
		Transaction:      txn,
		RevisionsWritten: 1,
		RevisionsClosed:  1,
		ExecutionTimeSec: time.Since(startTime).Seconds(),
		ExecutionOps:     1,
	}, nil
}

func (engine *Engine) executeDeleteStatement(statement sql.DeleteStatement) (CommitResult, error) {
	startTime := time.Now()

	log, err := op.OpenTable(statement.Table, engine.Persistence)
	if err != nil {
		return CommitResult{}, err
	}

	_, entity, err := engine.entityFromWhere(log, statement.Where)
	if err != nil {
		return CommitResult{}, err
	}

	if engine.inTransaction {
		bulk, err := engine.bulkFor(statement.Table)
		if err != nil {
			return CommitResult{}, err
		}
		bulk.Delete(entity, statement.At)
		return CommitResult{
			Staged:           1,
			ExecutionTimeSec: time.Since(startTime).Seconds(),
			ExecutionOps:     1,
		}, nil
	}

	mutator := engine.mutator(log)
	rev, txn, err := mutator.Delete(entity, statement.At)
	if err != nil {
		return CommitResult{}, err
	}

	closed := 0
	if rev != nil {
		closed = 1
	}

	return CommitResult{
		Transaction:      txn,
		RevisionsClosed:  closed,
		ExecutionTimeSec: time.Since(startTime).Seconds(),
		ExecutionOps:     1,
	}, nil
}

func (engine *Engine) executeHistoryStatement(statement sql.HistoryStatement) (QueryResult, error) {
	startTime := time.Now()

	log, err := op.OpenTable(statement.Table, engine.Persistence)
	if err != nil {
		return QueryResult{}, err
	}

	_, entity, err := engine.entityFromWhere(log, statement.Where)
	if err != nil {
		return QueryResult{}, err
	}

	revisions, err := log.RevisionsOf(entity)
	if err != nil {
		return QueryResult{}, err
	}

	columns := []string{"revision_id", "entity_id", "added_at", "removed_at"}
	for _, column := range log.Table.Columns {
		columns = append(columns, column.Name)
	}

	data := make([][]string, len(revisions))
	for i, rev := range revisions {
		removedAt := ""
		if rev.RemovedAt != nil {
			removedAt = rev.RemovedAt.UTC().Format(time.RFC3339)
		}
		row := []string{
			strconv.FormatInt(rev.RevisionID, 10),
			strconv.FormatInt(rev.EntityID, 10),
			rev.AddedAt.UTC().Format(time.RFC3339),
			removedAt,
		}
		for _, column := range log.Table.Columns {
			row = append(row, rev.Payload[column.Name])
		}
		data[i] = row
	}

	return QueryResult{
		Transaction:      engine.Persistence.LatestTransaction(),
		Columns:          columns,
		Data:             data,
		RecordsRead:      len(data),
		ExecutionTimeSec: time.Since(startTime).Seconds(),
		ExecutionOps:     len(data),
	}, nil
}

func (engine *Engine) executeCreateTableStatement(statement sql.CreateTableStatement) (CommitResult, error) {
	startTime := time.Now()

	txn, _, err := op.CreateTable(core.Table{
		Name:    statement.Table,
		Columns: statement.Columns,
	}, engine.Persistence, engine.Identity)
	if err != nil {
		return CommitResult{}, err
	}

	return CommitResult{
		Transaction:      *txn,
		TablesCreated:    1,
		ExecutionTimeSec: time.Since(startTime).Seconds(),
		ExecutionOps:     1,
	}, nil
}

func (engine *Engine) executeDropTableStatement(statement sql.DropTableStatement) (CommitResult, error) {
	startTime := time.Now()

	log, err := op.OpenTable(statement.Table, engine.Persistence)
	if err != nil {
		return CommitResult{}, err
	}

	txn, err := log.DropTable(engine.Identity)
	if err != nil {
		return CommitResult{}, err
	}

	return CommitResult{
		Transaction:      txn,
		TablesDeleted:    1,
		ExecutionTimeSec: time.Since(startTime).Seconds(),
		ExecutionOps:     1,
	}, nil
}

func (engine *Engine) executeCreateViewStatement(statement sql.CreateViewStatement) (CommitResult, error) {
	startTime := time.Now()

	log, err := op.OpenTable(statement.Table, engine.Persistence)
	if err != nil {
		return CommitResult{}, err
	}

	columns := statement.Columns
	if len(columns) == 0 {
		for _, column := range log.Table.Columns {
			columns = append(columns, column.Name)
		}
	} else {
		known := make(map[string]bool, len(log.Table.Columns))
		for _, column := range log.Table.Columns {
			known[column.Name] = true
		}
		for _, column := range columns {
			if !known[column] {
				return CommitResult{}, fmt.Errorf("column %s does not exist in table %s", column, statement.Table)
			}
		}
	}

	view := core.View{
		Name:      statement.Name,
		Table:     statement.Table,
		AsOf:      statement.AsOf,
		Columns:   columns,
		CreatedAt: time.Now().UTC(),
	}

	txn, err := engine.Persistence.CreateView(view, engine.Identity)
	if err != nil {
		return CommitResult{}, err
	}

	return CommitResult{
		Transaction:      txn,
		ViewsCreated:     1,
		ExecutionTimeSec: time.Since(startTime).Seconds(),
		ExecutionOps:     1,
	}, nil
}

func (engine *Engine) executeDropViewStatement(statement sql.DropViewStatement) (CommitResult, error) {
	startTime := time.Now()

	if _, err := engine.Persistence.GetView(statement.Name); err != nil {
		return CommitResult{}, err
	}

	txn, err := engine.Persistence.DropView(statement.Name, engine.Identity)
	if err != nil {
		return CommitResult{}, err
	}

	return CommitResult{
		Transaction:      txn,
		ViewsDeleted:     1,
		ExecutionTimeSec: time.Since(startTime).Seconds(),
		ExecutionOps:     1,
	}, nil
}

func (engine *Engine) executeBeginStatement() (CommitResult, error) {
	startTime := time.Now()

	if engine.inTransaction {
		return CommitResult{}, fmt.Errorf("transaction already in progress")
	}

	engine.inTransaction = true
	engine.batches = make(map[string]*op.Bulk)

	return CommitResult{
		ExecutionTimeSec: time.Since(startTime).Seconds(),
		ExecutionOps:     1,
	}, nil
}

func (engine *Engine) executeCommitStatement() (CommitResult, error) {
	startTime := time.Now()

	if !engine.inTransaction {
		return CommitResult{}, fmt.Errorf("no transaction in progress")
	}

	tables := make([]string, 0, len(engine.batches))
	for table := range engine.batches {
		tables = append(tables, table)
	}
	sort.Strings(tables)

	result := CommitResult{}
	for _, table := range tables {
		bulkResult, err := engine.batches[table].Commit()
		if err != nil {
			engine.rollbackBatches()
			return CommitResult{}, err
		}
		result.Transaction = bulkResult.Transaction
		result.RevisionsWritten += bulkResult.RevisionsWritten
		result.RevisionsClosed += bulkResult.RevisionsClosed
		result.ExecutionOps += bulkResult.RevisionsWritten + bulkResult.RevisionsClosed
	}

	engine.inTransaction = false
	engine.batches = nil

	result.ExecutionTimeSec = time.Since(startTime).Seconds()
	return result, nil
}

func (engine *Engine) executeRollbackStatement() (CommitResult, error) {
	startTime := time.Now()

	if !engine.inTransaction {
		return CommitResult{}, fmt.Errorf("no transaction in progress")
	}

	engine.rollbackBatches()

	return CommitResult{
		ExecutionTimeSec: time.Since(startTime).Seconds(),
		ExecutionOps:     1,
	}, nil
}

func (engine *Engine) rollbackBatches() {
	for _, bulk := range engine.batches {
		bulk.Rollback()
	}
	engine.inTransaction = false
	engine.batches = nil
}

func (engine *Engine) executeDescribeStatement(statement sql.DescribeStatement) (QueryResult, error) {
	startTime := time.Now()

	log, err := op.OpenTable(statement.Table, engine.Persistence)
	if err != nil {
		return QueryResult{}, err
	}

	var data [][]string
	for _, col := range log.Table.Columns {
		pkStr := "NO"
		if col.PrimaryKey {
			pkStr = "YES"
		}
		data = append(data, []string{col.Name, col.Type.String(), pkStr})
	}

	return QueryResult{
		Transaction:      engine.Persistence.LatestTransaction(),
		Columns:          []string{"Column", "Type", "PrimaryKey"},
		Data:             data,
		RecordsRead:      len(data),
		ExecutionTimeSec: time.Since(startTime).Seconds(),
		ExecutionOps:     len(data),
	}, nil
}

func (engine *Engine) executeShowTablesStatement() (QueryResult, error) {
	startTime := time.Now()

	tables, err := engine.Persistence.ListTables()
	if err != nil {
		return QueryResult{}, err
	}

	data := make([][]string, len(tables))
	for i, table := range tables {
		data[i] = []string{table.Name, strconv.Itoa(len(table.Columns))}
	}

	return QueryResult{
		Transaction:      engine.Persistence.LatestTransaction(),
		Columns:          []string{"Name", "Columns"},
		Data:             data,
		RecordsRead:      len(tables),
		ExecutionTimeSec: time.Since(startTime).Seconds(),
		ExecutionOps:     len(tables),
	}, nil
}

func (engine *Engine) executeShowViewsStatement() (QueryResult, error) {
	startTime := time.Now()

	views, err := engine.Persistence.ListViews()
	if err != nil {
		return QueryResult{}, err
	}

	data := make([][]string, len(views))
	for i, view := range views {
		data[i] = []string{view.Name, view.Table, view.AsOf.UTC().Format(time.RFC3339)}
	}

	return QueryResult{
		Transaction:      engine.Persistence.LatestTransaction(),
		Columns:          []string{"Name", "Table", "AsOf"},
		Data:             data,
		RecordsRead:      len(views),
		ExecutionTimeSec: time.Since(startTime).Seconds(),
		ExecutionOps:     len(views),
	}, nil
}

func (engine *Engine) executeSnapshotStatement(statement sql.SnapshotStatement) (CommitResult, error) {
	startTime := time.Now()

	if err := engine.Persistence.Snapshot(statement.Name, nil); err != nil {
		return CommitResult{}, err
	}

	return CommitResult{
		Transaction:      engine.Persistence.LatestTransaction(),
		ExecutionTimeSec: time.Since(startTime).Seconds(),
		ExecutionOps:     1,
	}, nil
}

func (engine *Engine) executeTransactionsStatement(statement sql.TransactionsStatement) (QueryResult, error) {
	startTime := time.Now()

	since := time.Time{}
	if statement.Since != nil {
		since = *statement.Since
	}
	transactions := engine.Persistence.TransactionsSince(since)

	data := make([][]string, len(transactions))
	for i, txn := range transactions {
		data[i] = []string{txn.Id, txn.When.UTC().Format(time.RFC3339), txn.Author}
	}

	return QueryResult{
		Transaction:      engine.Persistence.LatestTransaction(),
		Columns:          []string{"Id", "When", "Author"},
		Data:             data,
		RecordsRead:      len(data),
		ExecutionTimeSec: time.Since(startTime).Seconds(),
		ExecutionOps:     len(data),
	}, nil
}

func (engine *Engine) executeExportStatement(statement sql.ExportStatement) (QueryResult, error) {
	startTime := time.Now()

	log, err := op.OpenTable(statement.Table, engine.Persistence)
	if err != nil {
		return QueryResult{}, err
	}

	exported, err := loader.Export(log, statement.URL)
	if err != nil {
		return QueryResult{}, err
	}

	return QueryResult{
		Columns:          []string{"Status"},
		Data:             [][]string{{fmt.Sprintf("Exported %d revision(s) to '%s'", exported, statement.URL)}},
		RecordsRead:      exported,
		ExecutionTimeSec: time.Since(startTime).Seconds(),
		ExecutionOps:     exported,
	}, nil
}

func (engine *Engine) executeImportStatement(statement sql.ImportStatement) (CommitResult, error) {
	startTime := time.Now()

	log, err := op.OpenTable(statement.Table, engine.Persistence)
	if err != nil {
		return CommitResult{}, err
	}

	mutator := engine.mutator(log)
	imported, result, err := loader.ImportCSV(mutator, statement.URL)
	if err != nil {
		return CommitResult{}, err
	}

	return CommitResult{
		Transaction:      result.Transaction,
		RevisionsWritten: result.RevisionsWritten,
		RevisionsClosed:  result.RevisionsClosed,
		ExecutionTimeSec: time.Since(startTime).Seconds(),
		ExecutionOps:     imported,
	}, nil
}

func (engine *Engine) mutator(log *op.TableLog) *op.Mutator {
	mutator := op.NewMutator(log, engine.Identity)
	mutator.Options = engine.Options
	return mutator
}

// bulkFor returns the session's staging batch for a table, creating it on
// first use
func (engine *Engine) bulkFor(table string) (*op.Bulk, error) {
	if bulk, ok := engine.batches[table]; ok {
		return bulk, nil
	}

	log, err := op.OpenTable(table, engine.Persistence)
	if err != nil {
		return nil, err
	}

	bulk := engine.mutator(log).Begin()
	engine.batches[table] = bulk
	return bulk, nil
}

// entityFromPayload extracts the entity id from the primary key column, or
// returns nil for auto-assignment when the table has no primary key.
func (engine *Engine) entityFromPayload(log *op.TableLog, payload map[string]string) (*int64, error) {
	pk := log.Table.EntityColumn()
	if pk == nil {
		return nil, nil
	}

	value, ok := payload[*pk]
	if !ok || value == "" {
		return nil, nil
	}

	entity, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("primary key value '%s' is not an integer", value)
	}

	return &entity, nil
}

// entityFromWhere resolves a WHERE clause of the form `pk = <int>` to an
// entity id. Mutations address exactly one entity.
func (engine *Engine) entityFromWhere(log *op.TableLog, where sql.WhereClause) (string, int64, error) {
	pk := log.Table.EntityColumn()
	if pk == nil {
		return "", 0, fmt.Errorf("table %s has no primary key", log.Table.Name)
	}

	if len(where.Conditions) != 1 {
		return "", 0, fmt.Errorf("mutations require a single '%s = <value>' condition", *pk)
	}

	condition := where.Conditions[0]
	if condition.Left != *pk || condition.Operator != sql.EqualsOperator {
		return "", 0, fmt.Errorf("mutations require a single '%s = <value>' condition", *pk)
	}

	entity, err := strconv.ParseInt(condition.Right, 10, 64)
	if err != nil {
		return "", 0, fmt.Errorf("primary key value '%s' is not an integer", condition.Right)
	}

	return *pk, entity, nil
}

// matchesWhereClause evaluates the WHERE conditions, all joined by AND
func matchesWhereClause(row map[string]string, where sql.WhereClause) bool {
	for _, condition := range where.Conditions {
		if !evaluateCondition(row, condition) {
			return false
		}
	}
	return true
}

func evaluateCondition(row map[string]string, cond sql.WhereCondition) bool {
	value := row[cond.Left]

	switch cond.Operator {
	case sql.EqualsOperator:
		return value == cond.Right
	case sql.NotEqualsOperator:
		return value != cond.Right
	case sql.LessThanOperator:
		return compareValues(value, cond.Right) < 0
	case sql.GreaterThanOperator:
		return compareValues(value, cond.Right) > 0
	case sql.LessThanOrEqualOperator:
		return compareValues(value, cond.Right) <= 0
	case sql.GreaterThanOrEqualOperator:
		return compareValues(value, cond.Right) >= 0
	default:
		return false
	}
}

// compareValues compares two values, trying numeric comparison first, then
// string
func compareValues(a, b string) int {
	aNum, aErr := strconv.ParseFloat(a, 64)
	bNum, bErr := strconv.ParseFloat(b, 64)

	if aErr == nil && bErr == nil {
		if aNum < bNum {
			return -1
		} else if aNum > bNum {
			return 1
		}
		return 0
	}

	return strings.Compare(a, b)
}

// sortResults sorts the results by ORDER BY clauses
func sortResults(results []map[string]string, orderBy []sql.OrderByClause) {
	sort.SliceStable(results, func(i, j int) bool {
		for _, clause := range orderBy {
			cmp := compareValues(results[i][clause.Column], results[j][clause.Column])
			if cmp != 0 {
				if clause.Descending {
					return cmp > 0
				}
				return cmp < 0
			}
		}
		return false
	})
}
