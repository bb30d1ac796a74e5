package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"quitanda/internal/core/apperror"
	"quitanda/internal/core/id"
	"quitanda/internal/domain/catalogs/customer"
	"quitanda/internal/infrastructure/storage/postgres"
)

const (
	customersTable = "customers"
	addressesTable = "addresses"
)

// CustomerRepo implements customer.Repository.
type CustomerRepo struct {
	baseRepo
	cols        []string
	addressCols []string
}

// NewCustomerRepo creates a new customer repository.
func NewCustomerRepo(tx *postgres.TxManager) *CustomerRepo {
	return &CustomerRepo{
		baseRepo:    baseRepo{tx: tx},
		cols:        postgres.ExtractDBColumns[customer.Customer](),
		addressCols: postgres.ExtractDBColumns[customer.Address](),
	}
}

func (r *CustomerRepo) Create(ctx context.Context, c *customer.Customer) error {
	data := postgres.StructToMap(c)

	q := r.Builder().
		Insert(customersTable).
		SetMap(data)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

func (r *CustomerRepo) GetByID(ctx context.Context, customerID id.ID) (*customer.Customer, error) {
	q := r.Builder().
		Select(r.cols...).
		From(customersTable).
		Where(squirrel.Eq{"id": customerID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var c customer.Customer
	if err := pgxscan.Get(ctx, r.querier(ctx), &c, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("customer", customerID.String())
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return &c, nil
}

func (r *CustomerRepo) Update(ctx context.Context, c *customer.Customer) error {
	q := r.Builder().
		Update(customersTable).
		Set("name", c.Name).
		Set("cpf", c.CPF).
		Set("cnpj", c.CNPJ).
		Set("state_registration", c.StateRegistration).
		Set("phone", c.Phone).
		Set("state", c.State).
		Set("payment_terms", c.PaymentTerms).
		Set("bank", c.Bank).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": c.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update customer: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("customer", c.ID.String())
	}
	return nil
}

func (r *CustomerRepo) Delete(ctx context.Context, customerID id.ID) error {
	q := r.Builder().
		Delete(customersTable).
		Where(squirrel.Eq{"id": customerID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		if postgres.IsForeignKeyViolation(err) {
			return apperror.NewConflict("customer has sales and cannot be removed").
				WithDetail("id", customerID.String()).
				WithCause(err)
		}
		return fmt.Errorf("delete customer: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("customer", customerID.String())
	}
	return nil
}

func (r *CustomerRepo) List(ctx context.Context, filter customer.ListFilter) ([]*customer.Customer, int64, error) {
	q := r.Builder().
		Select(r.cols...).
		From(customersTable)

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"cpf": pattern},
			squirrel.ILike{"cnpj": pattern},
			squirrel.ILike{"phone": pattern},
		})
	}

	countQ := r.Builder().Select("COUNT(*)").FromSelect(q, "sub")
	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count: %w", err)
	}

	querier := r.querier(ctx)
	var total int64
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count customers: %w", err)
	}

	orderBy, err := postgres.ParseOrderBy(filter.OrderBy, "name ASC", map[string]struct{}{
		"name":       {},
		"state":      {},
		"created_at": {},
	})
	if err != nil {
		return nil, 0, err
	}
	q = q.OrderBy(orderBy)

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build query: %w", err)
	}

	var customers []*customer.Customer
	if err := pgxscan.Select(ctx, querier, &customers, sql, args...); err != nil {
		return nil, 0, fmt.Errorf("list customers: %w", err)
	}
	return customers, total, nil
}

func (r *CustomerRepo) AddAddress(ctx context.Context, a *customer.Address) error {
	data := postgres.StructToMap(a)

	q := r.Builder().
		Insert(addressesTable).
		SetMap(data)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert address: %w", err)
	}
	return nil
}

func (r *CustomerRepo) GetAddress(ctx context.Context, addressID id.ID) (*customer.Address, error) {
	q := r.Builder().
		Select(r.addressCols...).
		From(addressesTable).
		Where(squirrel.Eq{"id": addressID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var a customer.Address
	if err := pgxscan.Get(ctx, r.querier(ctx), &a, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("address", addressID.String())
		}
		return nil, fmt.Errorf("get address: %w", err)
	}
	return &a, nil
}

// ListAddresses returns the customer's addresses, principal first.
func (r *CustomerRepo) ListAddresses(ctx context.Context, customerID id.ID) ([]*customer.Address, error) {
	q := r.Builder().
		Select(r.addressCols...).
		From(addressesTable).
		Where(squirrel.Eq{"customer_id": customerID}).
		OrderBy("principal DESC", "created_at ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var addresses []*customer.Address
	if err := pgxscan.Select(ctx, r.querier(ctx), &addresses, sql, args...); err != nil {
		return nil, fmt.Errorf("list addresses: %w", err)
	}
	return addresses, nil
}

func (r *CustomerRepo) ClearPrincipal(ctx context.Context, customerID id.ID) error {
	q := r.Builder().
		Update(addressesTable).
		Set("principal", false).
		Where(squirrel.Eq{"customer_id": customerID}).
		Where(squirrel.Eq{"principal": true})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("clear principal: %w", err)
	}
	return nil
}

func (r *CustomerRepo) SetPrincipal(ctx context.Context, addressID id.ID) error {
	q := r.Builder().
		Update(addressesTable).
		Set("principal", true).
		Where(squirrel.Eq{"id": addressID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("set principal: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("address", addressID.String())
	}
	return nil
}

func (r *CustomerRepo) DeleteAddress(ctx context.Context, addressID id.ID) error {
	q := r.Builder().
		Delete(addressesTable).
		Where(squirrel.Eq{"id": addressID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete address: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("address", addressID.String())
	}
	return nil
}
