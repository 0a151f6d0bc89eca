/*
Copyright 2026 The Fedgate Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package validator resolves and type checks relational query blocks
// against the catalog of one sub-schema.
package validator

import (
	"errors"
	"strconv"
	"strings"

	"fedgate.io/fedgate/go/fed/federation/reltype"
	"fedgate.io/fedgate/go/fed/federation/sqlnode"
	"fedgate.io/fedgate/go/fed/federation/table"
	"fedgate.io/fedgate/go/fed/federrors"
)

// Catalog is the set of tables a query may refer to.
type Catalog interface {
	Name() string
	Table(name string) (*table.ScannableTable, bool)
}

// Validator checks statements against its catalog. It keeps no state
// between calls and is safe for concurrent use.
type Validator struct {
	catalog Catalog
	config  Config
}

// New returns a validator over catalog.
func New(catalog Catalog, config Config) *Validator {
	return &Validator{catalog: catalog, config: config}
}

// Catalog returns the catalog the validator resolves tables in.
func (v *Validator) Catalog() Catalog { return v.catalog }

// Config returns the configuration of the validator.
func (v *Validator) Config() Config { return v.config }

type (
	// Namespace is a table of the FROM clause. Its fields occupy
	// [Offset, Offset+Width) of the FROM row.
	Namespace struct {
		Alias  string
		Table  *table.ScannableTable
		Offset int
	}

	// FromItem is a *Namespace or a *JoinItem.
	FromItem interface {
		// Span returns the range of FROM row fields the item covers.
		Span() (start, width int)
	}

	// JoinItem joins two FROM items. Condition is nil for comma joins.
	JoinItem struct {
		Left, Right FromItem
		Type        sqlnode.JoinType
		Condition   sqlnode.Node
	}

	// SelectItem is one expanded item of the select list.
	SelectItem struct {
		Expr sqlnode.Node
		Name string
		Type reltype.RelType
	}

	// OrderItem is one ORDER BY key. Ordinal is the index of the select
	// item the key refers to, or -1 when it is an expression over the FROM
	// row.
	OrderItem struct {
		Expr       sqlnode.Node
		Ordinal    int
		Descending bool
		NullsFirst bool
	}
)

// Width returns the number of fields of the table.
func (ns *Namespace) Width() int { return ns.Table.RowType().FieldCount() }

func (ns *Namespace) Span() (int, int) { return ns.Offset, ns.Width() }

func (j *JoinItem) Span() (int, int) {
	start, lw := j.Left.Span()
	_, rw := j.Right.Span()
	return start, lw + rw
}

// Validated is the outcome of validating a query block: the expanded
// statement, its scopes, and the types and field references of every
// expression in it.
type Validated struct {
	Select      *sqlnode.Select
	From        FromItem
	Namespaces  []*Namespace
	FromRowType *reltype.RowType
	Where       sqlnode.Node
	Items       []SelectItem
	GroupBy     []sqlnode.Node
	Having      sqlnode.Node
	OrderBy     []OrderItem
	// Offset and Fetch are -1 when absent.
	Offset, Fetch int64
	Distinct      bool
	Aggregate     bool
	RowType       *reltype.RowType

	validator *Validator
	ann       *annotations
}

// Validator returns the validator that produced v.
func (v *Validated) Validator() *Validator { return v.validator }

// TypeOf returns the type derived for an expression of the statement.
func (v *Validated) TypeOf(n sqlnode.Node) (reltype.RelType, bool) {
	t, ok := v.ann.types[n]
	return t, ok
}

// FieldOf returns the FROM row field an identifier resolved to.
func (v *Validated) FieldOf(id *sqlnode.Identifier) (int, bool) {
	i, ok := v.ann.refs[id]
	return i, ok
}

// Subquery returns the validated IN subquery.
func (v *Validated) Subquery(sel *sqlnode.Select) (*Validated, bool) {
	sub, ok := v.ann.subqueries[sel]
	return sub, ok
}

type annotations struct {
	types      map[sqlnode.Node]reltype.RelType
	refs       map[*sqlnode.Identifier]int
	subqueries map[*sqlnode.Select]*Validated
}

type clause int8

const (
	clauseSelect clause = iota
	clauseOn
	clauseWhere
	clauseGroupBy
	clauseHaving
	clauseOrderBy
)

func (c clause) String() string {
	switch c {
	case clauseOn:
		return "on clause"
	case clauseWhere:
		return "where clause"
	case clauseGroupBy:
		return "group statement"
	case clauseHaving:
		return "having clause"
	case clauseOrderBy:
		return "order clause"
	}
	return "field list"
}

// keyword returns the SQL keyword that opens the clause.
func (c clause) keyword() string {
	switch c {
	case clauseOn:
		return "ON"
	case clauseWhere:
		return "WHERE"
	case clauseGroupBy:
		return "GROUP BY"
	case clauseHaving:
		return "HAVING"
	case clauseOrderBy:
		return "ORDER BY"
	}
	return "SELECT"
}

func (c clause) allowsAggregates() bool {
	return c == clauseSelect || c == clauseHaving || c == clauseOrderBy
}

// Validate resolves stmt. Semantic errors are returned as
// *federrors.ValidationError carrying the position of the offending node.
func (v *Validator) Validate(stmt *sqlnode.Select) (*Validated, error) {
	if stmt == nil {
		return nil, federrors.NewIllegalPlanState("no statement to validate")
	}
	ann := &annotations{
		types:      map[sqlnode.Node]reltype.RelType{},
		refs:       map[*sqlnode.Identifier]int{},
		subqueries: map[*sqlnode.Select]*Validated{},
	}
	s := &validation{v: v, ann: ann}
	return s.validateSelect(stmt)
}

// validation holds the annotations of one Validate call.
type validation struct {
	v   *Validator
	ann *annotations
}

func (s *validation) fail(n sqlnode.Node, err error) error {
	var ve *federrors.ValidationError
	var ipe *federrors.IllegalPlanStateError
	if errors.As(err, &ve) || errors.As(err, &ipe) {
		return err
	}
	var pos sqlnode.ParserPos
	if n != nil {
		pos = n.Pos()
	}
	return &federrors.ValidationError{
		Line:      pos.LineNum,
		Column:    pos.ColumnNum,
		EndLine:   pos.EndLineNum,
		EndColumn: pos.EndColumnNum,
		Err:       err,
	}
}

func (s *validation) validateSelect(stmt *sqlnode.Select) (*Validated, error) {
	if stmt.From == nil {
		return nil, s.fail(stmt, federrors.FED12001("SELECT without FROM"))
	}
	out := &Validated{Distinct: stmt.Distinct, Offset: -1, Fetch: -1, validator: s.v, ann: s.ann}

	fb := &fromBuilder{s: s}
	from, err := fb.build(stmt.From)
	if err != nil {
		return nil, err
	}
	out.From = from
	out.Namespaces = fb.namespaces
	out.FromRowType = fromRowType(fb.namespaces)
	sc := &scope{namespaces: fb.namespaces}

	if stmt.Where != nil {
		where, t, err := s.expr(stmt.Where, &exprCtx{scope: sc, clause: clauseWhere})
		if err != nil {
			return nil, err
		}
		if !reltype.IsBoolean(t) {
			return nil, s.fail(stmt.Where, federrors.FED03003("WHERE", typeList(t)))
		}
		out.Where = where
	}

	if out.Items, err = s.selectList(stmt.SelectList, sc); err != nil {
		return nil, err
	}
	aliases := aliasMap(out.Items)

	for _, key := range nodes(stmt.GroupBy) {
		expr, err := s.groupKey(key, sc, out.Items, aliases)
		if err != nil {
			return nil, err
		}
		out.GroupBy = append(out.GroupBy, expr)
	}

	if stmt.Having != nil {
		ctx := &exprCtx{scope: sc, clause: clauseHaving}
		if s.v.config.Conformance.HavingAlias {
			ctx.aliases, ctx.items = aliases, out.Items
		}
		having, t, err := s.expr(stmt.Having, ctx)
		if err != nil {
			return nil, err
		}
		if !reltype.IsBoolean(t) {
			return nil, s.fail(stmt.Having, federrors.FED03003("HAVING", typeList(t)))
		}
		out.Having = having
	}

	for _, item := range nodes(stmt.OrderBy) {
		oi, err := s.orderItem(item, sc, out.Items, aliases, stmt.Distinct)
		if err != nil {
			return nil, err
		}
		out.OrderBy = append(out.OrderBy, oi)
	}

	out.Aggregate = len(out.GroupBy) > 0 || out.Having != nil || containsAggregate(out.selectExprs()...) || containsAggregate(out.orderExprs()...)
	if out.Aggregate {
		if err := out.checkGrouped(s); err != nil {
			return nil, err
		}
	}

	if out.Offset, err = s.limit(stmt.Offset, "OFFSET"); err != nil {
		return nil, err
	}
	if out.Fetch, err = s.limit(stmt.Fetch, "FETCH"); err != nil {
		return nil, err
	}

	fields := make([]reltype.Field, len(out.Items))
	for i, item := range out.Items {
		fields[i] = reltype.Field{Name: item.Name, Type: item.Type}
	}
	out.RowType = reltype.NewRowType(fields...)
	out.Select = out.expanded(stmt)
	return out, nil
}

func nodes(l *sqlnode.NodeList) []sqlnode.Node {
	if l == nil {
		return nil
	}
	return l.Nodes
}

func fromRowType(namespaces []*Namespace) *reltype.RowType {
	var fields []reltype.Field
	for _, ns := range namespaces {
		fields = append(fields, ns.Table.RowType().Fields...)
	}
	return reltype.NewRowType(fields...)
}

func aliasMap(items []SelectItem) map[string]int {
	aliases := make(map[string]int, len(items))
	for i := len(items) - 1; i >= 0; i-- {
		aliases[strings.ToLower(items[i].Name)] = i
	}
	return aliases
}

func (s *validation) selectList(list *sqlnode.NodeList, sc *scope) ([]SelectItem, error) {
	if list.Len() == 0 {
		return nil, federrors.NewIllegalPlanState("empty select list")
	}
	var items []SelectItem
	ctx := &exprCtx{scope: sc, clause: clauseSelect}
	for _, n := range list.Nodes {
		if id, ok := n.(*sqlnode.Identifier); ok && id.IsStar() {
			expanded, err := s.expandStar(id, sc)
			if err != nil {
				return nil, err
			}
			items = append(items, expanded...)
			continue
		}
		alias := ""
		if call, ok := n.(*sqlnode.BasicCall); ok && call.Kind() == sqlnode.KindAs {
			if len(call.Operands) != 2 {
				return nil, federrors.NewIllegalPlanState("AS call expects 2 operands, got %d", len(call.Operands))
			}
			name, ok := call.Operands[1].(*sqlnode.Identifier)
			if !ok {
				return nil, federrors.NewIllegalPlanState("malformed alias %s", call.String())
			}
			n, alias = call.Operands[0], name.Simple()
		}
		expr, t, err := s.expr(n, ctx)
		if err != nil {
			return nil, err
		}
		if alias == "" {
			alias = deriveAlias(expr, len(items))
		}
		items = append(items, SelectItem{Expr: expr, Name: alias, Type: t})
	}
	return items, nil
}

func deriveAlias(expr sqlnode.Node, ordinal int) string {
	if id, ok := expr.(*sqlnode.Identifier); ok {
		return id.Simple()
	}
	return "EXPR$" + strconv.Itoa(ordinal)
}

func (s *validation) expandStar(id *sqlnode.Identifier, sc *scope) ([]SelectItem, error) {
	namespaces := sc.namespaces
	if len(id.Names) > 1 {
		ns, ok := sc.namespace(id.Names[len(id.Names)-2])
		if !ok {
			return nil, s.fail(id, federrors.FED03001(id.String(), clauseSelect.String()))
		}
		namespaces = []*Namespace{ns}
	}
	var items []SelectItem
	for _, ns := range namespaces {
		for _, f := range ns.Table.RowType().Fields {
			col := &sqlnode.Identifier{Names: []string{ns.Alias, f.Name}, P: id.P}
			s.ann.refs[col] = ns.Offset + f.Index
			s.ann.types[col] = f.Type
			items = append(items, SelectItem{Expr: col, Name: f.Name, Type: f.Type})
		}
	}
	return items, nil
}

func (s *validation) groupKey(key sqlnode.Node, sc *scope, items []SelectItem, aliases map[string]int) (sqlnode.Node, error) {
	conf := s.v.config.Conformance
	if lit, ok := key.(*sqlnode.Literal); ok && lit.Type == sqlnode.ExactLiteral && conf.GroupByOrdinal {
		i, err := ordinal(lit, len(items))
		if err != nil {
			return nil, s.fail(key, federrors.FED03007(lit.Value, "GROUP BY"))
		}
		if containsAggregate(items[i].Expr) {
			return nil, s.fail(key, federrors.FED03010(items[i].Expr.String(), "GROUP BY"))
		}
		return items[i].Expr, nil
	}
	ctx := &exprCtx{scope: sc, clause: clauseGroupBy}
	if conf.GroupByAlias {
		ctx.aliases, ctx.items = aliases, items
	}
	expr, _, err := s.expr(key, ctx)
	return expr, err
}

func (s *validation) orderItem(item sqlnode.Node, sc *scope, items []SelectItem, aliases map[string]int, distinct bool) (OrderItem, error) {
	oi := OrderItem{Ordinal: -1}
	nulls := 0
unwrap:
	for {
		call, ok := item.(*sqlnode.BasicCall)
		if !ok || len(call.Operands) != 1 {
			break
		}
		switch call.Kind() {
		case sqlnode.KindDesc:
			oi.Descending = true
		case sqlnode.KindNullsFirst:
			nulls = 1
		case sqlnode.KindNullsLast:
			nulls = -1
		default:
			break unwrap
		}
		item = call.Operands[0]
	}
	switch nulls {
	case 1:
		oi.NullsFirst = true
	case 0:
		oi.NullsFirst = !s.v.config.NullCollation.Last(oi.Descending)
	}

	conf := s.v.config.Conformance
	if lit, ok := item.(*sqlnode.Literal); ok && lit.Type == sqlnode.ExactLiteral && conf.SortByOrdinal {
		i, err := ordinal(lit, len(items))
		if err != nil {
			return oi, s.fail(item, federrors.FED03007(lit.Value, "ORDER BY"))
		}
		oi.Ordinal, oi.Expr = i, items[i].Expr
		return oi, nil
	}
	if id, ok := item.(*sqlnode.Identifier); ok && id.IsSimple() && conf.SortByAlias {
		if i, ok := aliases[strings.ToLower(id.Simple())]; ok {
			oi.Ordinal, oi.Expr = i, items[i].Expr
			return oi, nil
		}
	}
	expr, _, err := s.expr(item, &exprCtx{scope: sc, clause: clauseOrderBy})
	if err != nil {
		return oi, err
	}
	oi.Expr = expr
	for i, it := range items {
		if it.Expr.String() == expr.String() {
			oi.Ordinal = i
			break
		}
	}
	if distinct && oi.Ordinal < 0 {
		return oi, s.fail(item, federrors.FED03007(expr.String(), "ORDER BY"))
	}
	return oi, nil
}

func ordinal(lit *sqlnode.Literal, n int) (int, error) {
	i, err := strconv.Atoi(lit.Value)
	if err != nil {
		return 0, err
	}
	if i < 1 || i > n {
		return 0, errors.New("ordinal out of range")
	}
	return i - 1, nil
}

func (s *validation) limit(n sqlnode.Node, name string) (int64, error) {
	if n == nil {
		return -1, nil
	}
	lit, ok := n.(*sqlnode.Literal)
	if !ok || lit.Type != sqlnode.ExactLiteral {
		return 0, s.fail(n, federrors.FED12001("non literal "+name))
	}
	v, err := strconv.ParseInt(lit.Value, 10, 64)
	if err != nil || v < 0 {
		return 0, s.fail(n, federrors.FED03003(name, "<"+lit.Value+">"))
	}
	return v, nil
}

func (out *Validated) selectExprs() []sqlnode.Node {
	exprs := make([]sqlnode.Node, len(out.Items))
	for i, item := range out.Items {
		exprs[i] = item.Expr
	}
	return exprs
}

func (out *Validated) orderExprs() []sqlnode.Node {
	exprs := make([]sqlnode.Node, len(out.OrderBy))
	for i, item := range out.OrderBy {
		exprs[i] = item.Expr
	}
	return exprs
}

// expanded rebuilds the statement from its validated parts.
func (out *Validated) expanded(stmt *sqlnode.Select) *sqlnode.Select {
	items := make([]sqlnode.Node, len(out.Items))
	for i, item := range out.Items {
		items[i] = item.Expr
		if deriveAlias(item.Expr, i) != item.Name {
			items[i] = sqlnode.NewCall(sqlnode.As, sqlnode.ZeroPos, item.Expr, sqlnode.NewIdentifier(sqlnode.ZeroPos, item.Name))
		}
	}
	sel := &sqlnode.Select{
		Distinct:   out.Distinct,
		SelectList: sqlnode.NewNodeList(stmt.SelectList.Pos(), items...),
		From:       fromNode(out.From),
		Where:      out.Where,
		Having:     out.Having,
		Offset:     stmt.Offset,
		Fetch:      stmt.Fetch,
		P:          stmt.P,
	}
	if len(out.GroupBy) > 0 {
		sel.GroupBy = sqlnode.NewNodeList(sqlnode.ZeroPos, out.GroupBy...)
	}
	if len(out.OrderBy) > 0 {
		keys := make([]sqlnode.Node, len(out.OrderBy))
		for i, oi := range out.OrderBy {
			key := oi.Expr
			if oi.Descending {
				key = sqlnode.NewCall(sqlnode.Desc, sqlnode.ZeroPos, key)
			}
			keys[i] = key
		}
		sel.OrderBy = sqlnode.NewNodeList(sqlnode.ZeroPos, keys...)
	}
	return sel
}

func fromNode(item FromItem) sqlnode.Node {
	switch item := item.(type) {
	case *Namespace:
		name := sqlnode.NewIdentifier(sqlnode.ZeroPos, item.Table.Name())
		if item.Alias == item.Table.Name() {
			return name
		}
		return sqlnode.NewCall(sqlnode.As, sqlnode.ZeroPos, name, sqlnode.NewIdentifier(sqlnode.ZeroPos, item.Alias))
	case *JoinItem:
		return &sqlnode.Join{Left: fromNode(item.Left), Type: item.Type, Right: fromNode(item.Right), Condition: item.Condition}
	}
	return nil
}
