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

package validator

import (
	"strings"

	"fedgate.io/fedgate/go/fed/federation/reltype"
	"fedgate.io/fedgate/go/fed/federation/sqlnode"
	"fedgate.io/fedgate/go/fed/federrors"
)

// fromBuilder lays out the tables of a FROM clause left to right.
type fromBuilder struct {
	s          *validation
	namespaces []*Namespace
	offset     int
}

func (fb *fromBuilder) build(n sqlnode.Node) (FromItem, error) {
	switch n := n.(type) {
	case *sqlnode.Identifier:
		return fb.table(n, "")
	case *sqlnode.BasicCall:
		if n.Kind() != sqlnode.KindAs || len(n.Operands) != 2 {
			return nil, fb.s.fail(n, federrors.FED12001("FROM item "+n.String()))
		}
		alias, ok := n.Operands[1].(*sqlnode.Identifier)
		if !ok {
			return nil, federrors.NewIllegalPlanState("malformed alias %s", n.String())
		}
		name, ok := n.Operands[0].(*sqlnode.Identifier)
		if !ok {
			return nil, fb.s.fail(n, federrors.FED12001("derived table "+alias.Simple()))
		}
		return fb.table(name, alias.Simple())
	case *sqlnode.Select:
		return nil, fb.s.fail(n, federrors.FED12001("derived table"))
	case *sqlnode.Join:
		return fb.join(n)
	}
	return nil, federrors.NewIllegalPlanState("%s node in FROM clause", n.Kind())
}

func (fb *fromBuilder) table(id *sqlnode.Identifier, alias string) (FromItem, error) {
	catalog := fb.s.v.catalog
	if id.IsStar() || len(id.Names) > 2 {
		return nil, fb.s.fail(id, federrors.FED12001("table name "+id.String()))
	}
	if len(id.Names) == 2 && !strings.EqualFold(id.Names[0], catalog.Name()) {
		return nil, fb.s.fail(id, federrors.FED03002(id.Simple(), id.Names[0]))
	}
	t, ok := catalog.Table(id.Simple())
	if !ok {
		return nil, fb.s.fail(id, federrors.FED03002(id.Simple(), catalog.Name()))
	}
	if alias == "" {
		alias = t.Name()
	}
	for _, ns := range fb.namespaces {
		if strings.EqualFold(ns.Alias, alias) {
			return nil, fb.s.fail(id, federrors.FED03009(alias))
		}
	}
	ns := &Namespace{Alias: alias, Table: t, Offset: fb.offset}
	fb.namespaces = append(fb.namespaces, ns)
	fb.offset += ns.Width()
	return ns, nil
}

func (fb *fromBuilder) join(j *sqlnode.Join) (FromItem, error) {
	first := len(fb.namespaces)
	left, err := fb.build(j.Left)
	if err != nil {
		return nil, err
	}
	right, err := fb.build(j.Right)
	if err != nil {
		return nil, err
	}
	item := &JoinItem{Left: left, Right: right, Type: j.Type}
	if j.Condition == nil {
		return item, nil
	}
	if j.Type == sqlnode.CommaJoin {
		return nil, federrors.NewIllegalPlanState("comma join with a condition")
	}
	sc := &scope{namespaces: fb.namespaces[first:]}
	cond, t, err := fb.s.expr(j.Condition, &exprCtx{scope: sc, clause: clauseOn})
	if err != nil {
		return nil, err
	}
	if !reltype.IsBoolean(t) {
		return nil, fb.s.fail(j.Condition, federrors.FED03003("ON", typeList(t)))
	}
	item.Condition = cond
	return item, nil
}

// scope is the set of namespaces identifiers resolve in.
type scope struct {
	namespaces []*Namespace
}

func (sc *scope) namespace(alias string) (*Namespace, bool) {
	for _, ns := range sc.namespaces {
		if strings.EqualFold(ns.Alias, alias) {
			return ns, true
		}
	}
	return nil, false
}

// resolve finds the namespace and field an identifier refers to. A simple
// name must match exactly one field of the scope.
func (sc *scope) resolve(id *sqlnode.Identifier, c clause) (*Namespace, reltype.Field, error) {
	name := id.Simple()
	switch len(id.Names) {
	case 1:
		var (
			found *Namespace
			field reltype.Field
		)
		for _, ns := range sc.namespaces {
			f, ok := ns.Table.RowType().Field(name)
			if !ok {
				continue
			}
			if found != nil {
				return nil, field, federrors.FED03004(name)
			}
			found, field = ns, f
		}
		if found == nil {
			return nil, field, federrors.FED03001(name, c.String())
		}
		return found, field, nil
	case 2:
		ns, ok := sc.namespace(id.Names[0])
		if !ok {
			return nil, reltype.Field{}, federrors.FED03001(id.String(), c.String())
		}
		f, ok := ns.Table.RowType().Field(name)
		if !ok {
			return nil, reltype.Field{}, federrors.FED03001(id.String(), c.String())
		}
		return ns, f, nil
	}
	return nil, reltype.Field{}, federrors.FED03001(id.String(), c.String())
}
