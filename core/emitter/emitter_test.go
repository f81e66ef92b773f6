package emitter_test

import (
	"strings"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"

	"github.com/stokaro/qmeta/core/emitter"
	"github.com/stokaro/qmeta/core/metadata"
)

var fixedTime = time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)

func fixedClock() time.Time { return fixedTime }

func orderDescriptor() *metadata.EntityDescriptor {
	hints := metadata.DefaultHints()
	orderNoHints := hints
	orderNoHints.Length = 32
	amountHints := hints
	amountHints.Precision, amountHints.Scale = 12, 4

	return &metadata.EntityDescriptor{
		Package:       "com.example.order",
		QualifiedName: "com.example.order.Order",
		SimpleName:    "Order",
		CompanionName: "QOrder",
		Table:         "orders",
		Schema:        "sales",
		PrimaryKey:    "id",
		Columns: []metadata.ColumnSpec{
			{Field: "id", Column: "id", Kind: metadata.KindLong, TypeName: "java.lang.Long", Nullable: false, Hints: hints},
			{Field: "orderNo", Column: "order_no", Kind: metadata.KindString, TypeName: "java.lang.String", Nullable: true, Doc: "Business order number.", Hints: orderNoHints},
			{Field: "amount", Column: "amount", Kind: metadata.KindBigDecimal, TypeName: "java.math.BigDecimal", Nullable: true, Hints: amountHints},
			{Field: "createdAt", Column: "created_at", Kind: metadata.KindLocalDateTime, TypeName: "java.time.LocalDateTime", Nullable: true, Hints: hints},
		},
	}
}

const expectedOrder = `package com.example.order;

import static com.querydsl.core.types.PathMetadataFactory.*;
import com.querydsl.core.types.dsl.*;
import com.querydsl.core.types.PathMetadata;
import javax.annotation.processing.Generated;
import com.querydsl.core.types.Path;
import com.querydsl.sql.ColumnMetadata;
import java.sql.Types;

/**
 * QOrder is a querydsl-sql query type for com.example.order.Order
 * @since 2024-05-06 07:08:09
 */
@Generated(value = "github.com/stokaro/qmeta", date = "2024-05-06 07:08:09", comments = "Generated from com.example.order.Order")
public class QOrder extends com.querydsl.sql.RelationalPathBase<QOrder> {

    public static final QOrder order = new QOrder("orders");

    public final NumberPath<Long> id = createNumber("id", Long.class);

    /**
     * Business order number.
     */
    public final StringPath orderNo = createString("orderNo");

    public final NumberPath<java.math.BigDecimal> amount = createNumber("amount", java.math.BigDecimal.class);

    public final DateTimePath<java.time.LocalDateTime> createdAt = createDateTime("createdAt", java.time.LocalDateTime.class);

    /**
     * Primary key.
     */
    public final com.querydsl.sql.PrimaryKey<QOrder> primaryKey = createPrimaryKey(id);

    public QOrder(String variable) {
        super(QOrder.class, forVariable(variable), "sales", "orders");
        addMetadata();
    }

    public QOrder(String variable, String schema, String table) {
        super(QOrder.class, forVariable(variable), schema, table);
        addMetadata();
    }

    public QOrder(Path<? extends QOrder> path) {
        super(path.getType(), path.getMetadata(), "sales", "orders");
        addMetadata();
    }

    public QOrder(PathMetadata metadata) {
        super(QOrder.class, metadata, "sales", "orders");
        addMetadata();
    }

    public void addMetadata() {
        addMetadata(id, ColumnMetadata.named("id").withIndex(1).ofType(Types.BIGINT).withSize(19).notNull());
        addMetadata(orderNo, ColumnMetadata.named("order_no").withIndex(2).ofType(Types.VARCHAR).withSize(32));
        addMetadata(amount, ColumnMetadata.named("amount").withIndex(3).ofType(Types.NUMERIC).withSize(12).withDigits(4));
        addMetadata(createdAt, ColumnMetadata.named("created_at").withIndex(4).ofType(Types.TIMESTAMP).withSize(29).withDigits(6));
    }
}
`

func TestEmit_Order(t *testing.T) {
	c := qt.New(t)

	src := emitter.New(emitter.WithClock(fixedClock)).Emit(orderDescriptor())
	c.Assert(string(src), qt.Equals, expectedOrder)
}

func TestEmit_Deterministic(t *testing.T) {
	c := qt.New(t)

	e := emitter.New(emitter.WithClock(fixedClock))
	c.Assert(string(e.Emit(orderDescriptor())), qt.Equals, string(e.Emit(orderDescriptor())))
}

func TestEmit_WithoutPrimaryKey(t *testing.T) {
	c := qt.New(t)

	d := orderDescriptor()
	d.PrimaryKey = ""
	src := string(emitter.New(emitter.WithClock(fixedClock)).Emit(d))

	c.Assert(src, qt.Not(qt.Contains), "primaryKey")
	c.Assert(src, qt.Not(qt.Contains), "Primary key.")
}

func TestEmit_EmptyEntity(t *testing.T) {
	c := qt.New(t)

	d := &metadata.EntityDescriptor{
		QualifiedName: "Empty",
		SimpleName:    "Empty",
		CompanionName: "QEmpty",
		Table:         "Empty",
		Schema:        "public",
	}
	src := string(emitter.New(emitter.WithClock(fixedClock)).Emit(d))

	c.Assert(strings.HasPrefix(src, "import static "), qt.IsTrue, qt.Commentf("default package has no package clause"))
	c.Assert(src, qt.Contains, `public static final QEmpty empty = new QEmpty("Empty");`)
	c.Assert(src, qt.Contains, "    public void addMetadata() {\n    }\n}\n")
}

func TestEmit_GeneratorName(t *testing.T) {
	c := qt.New(t)

	src := string(emitter.New(emitter.WithClock(fixedClock), emitter.WithGenerator("acme-build")).Emit(orderDescriptor()))
	c.Assert(src, qt.Contains, `@Generated(value = "acme-build", date = "2024-05-06 07:08:09"`)

	src = string(emitter.New(emitter.WithClock(fixedClock), emitter.WithGenerator("")).Emit(orderDescriptor()))
	c.Assert(src, qt.Contains, `@Generated(value = "github.com/stokaro/qmeta"`)
}

func TestEmit_InstanceNameClash(t *testing.T) {
	tests := []struct {
		name       string
		simpleName string
		fields     []string
		pk         string
		expected   string
	}{
		{name: "no clash", simpleName: "Order", fields: []string{"id"}, expected: "order"},
		{name: "field clash", simpleName: "Order", fields: []string{"order", "order1"}, expected: "order2"},
		{name: "keyword", simpleName: "Package", fields: nil, expected: "package1"},
		{name: "primary key member", simpleName: "PrimaryKey", fields: []string{"id"}, pk: "id", expected: "primaryKey1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := qt.New(t)

			d := &metadata.EntityDescriptor{
				QualifiedName: tt.simpleName,
				SimpleName:    tt.simpleName,
				CompanionName: "Q" + tt.simpleName,
				Table:         "t",
				Schema:        "public",
				PrimaryKey:    tt.pk,
			}
			for _, f := range tt.fields {
				d.Columns = append(d.Columns, metadata.ColumnSpec{Field: f, Column: f, Kind: metadata.KindString, Nullable: true})
			}
			src := string(emitter.New(emitter.WithClock(fixedClock)).Emit(d))
			c.Assert(src, qt.Contains, "public static final Q"+tt.simpleName+" "+tt.expected+" = new Q"+tt.simpleName+`("t");`)
		})
	}
}

func TestEmit_PrimaryKeyFieldClash(t *testing.T) {
	c := qt.New(t)

	d := &metadata.EntityDescriptor{
		QualifiedName: "p.PrimaryKey",
		Package:       "p",
		SimpleName:    "PrimaryKey",
		CompanionName: "QPrimaryKey",
		Table:         "t",
		Schema:        "public",
		PrimaryKey:    "id",
		Columns: []metadata.ColumnSpec{
			{Field: "id", Column: "id", Kind: metadata.KindLong},
			{Field: "primaryKey", Column: "primary_key", Kind: metadata.KindString, Nullable: true},
		},
	}
	src := string(emitter.New(emitter.WithClock(fixedClock)).Emit(d))

	c.Assert(strings.Count(src, " primaryKey = "), qt.Equals, 1)
	c.Assert(src, qt.Contains, "public final StringPath primaryKey = createString(\"primaryKey\");")
	c.Assert(src, qt.Contains, "public final com.querydsl.sql.PrimaryKey<QPrimaryKey> primaryKey1 = createPrimaryKey(id);")
	c.Assert(src, qt.Contains, "public static final QPrimaryKey primaryKey2 = new QPrimaryKey(\"t\");")
}

func TestEmit_DocNormalisation(t *testing.T) {
	c := qt.New(t)

	d := orderDescriptor()
	d.Columns = d.Columns[:1]
	d.Columns[0].Doc = "\n * First line.\n *\n * Closes */ early.\n"
	src := string(emitter.New(emitter.WithClock(fixedClock)).Emit(d))

	c.Assert(src, qt.Contains, "    /**\n     * First line.\n     *\n     * Closes *&#47; early.\n     */\n    public final NumberPath<Long> id")
}

func TestEmit_EscapesLiterals(t *testing.T) {
	c := qt.New(t)

	d := orderDescriptor()
	d.Table = `odd"name`
	src := string(emitter.New(emitter.WithClock(fixedClock)).Emit(d))
	c.Assert(src, qt.Contains, `new QOrder("odd\"name")`)
}

func TestFileName(t *testing.T) {
	c := qt.New(t)

	c.Assert(emitter.FileName(orderDescriptor()), qt.Equals, "com/example/order/QOrder.java")
	c.Assert(emitter.FileName(&metadata.EntityDescriptor{CompanionName: "QEmpty"}), qt.Equals, "QEmpty.java")
}
