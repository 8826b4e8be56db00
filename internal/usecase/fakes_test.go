package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Cjota221/C4franquiaas-sub006/internal/domain"
	"github.com/Cjota221/C4franquiaas-sub006/internal/gateway"
)

// Fakes em memória dos gateways. O fakeUow tira um snapshot de cada store
// antes de rodar a função e restaura tudo em caso de erro, imitando o
// rollback do Postgres.

type restorable interface {
	snapshot() func()
}

type fakeTxToken struct{}

type fakeUow struct {
	stores []restorable
}

func (u *fakeUow) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	undos := make([]func(), 0, len(u.stores))
	for _, s := range u.stores {
		undos = append(undos, s.snapshot())
	}

	ctxWithTx := context.WithValue(ctx, gateway.TransactionKey, &fakeTxToken{})
	if err := fn(ctxWithTx); err != nil {
		for _, undo := range undos {
			undo()
		}
		return err
	}
	return nil
}

// ---- Wallets ----

type fakeWalletRepo struct {
	mu      sync.Mutex
	wallets map[int64]*domain.Wallet
	nextID  int64

	unlockErr error // injeta falha no Unlock para testar rollback
}

func newFakeWalletRepo() *fakeWalletRepo {
	return &fakeWalletRepo{wallets: map[int64]*domain.Wallet{}, nextID: 1}
}

func (r *fakeWalletRepo) snapshot() func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	saved := make(map[int64]*domain.Wallet, len(r.wallets))
	for id, w := range r.wallets {
		cp := *w
		saved[id] = &cp
	}
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.wallets = saved
	}
}

func (r *fakeWalletRepo) Create(_ context.Context, ownerID, balance int64) (*domain.Wallet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w := &domain.Wallet{ID: r.nextID, OwnerID: ownerID, Balance: balance, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	r.wallets[w.ID] = w
	r.nextID++
	cp := *w
	return &cp, nil
}

func (r *fakeWalletRepo) get(id int64) (*domain.Wallet, error) {
	w, ok := r.wallets[id]
	if !ok {
		return nil, domain.ErrWalletNotFound
	}
	cp := *w
	return &cp, nil
}

func (r *fakeWalletRepo) GetByID(_ context.Context, id int64) (*domain.Wallet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.get(id)
}

func (r *fakeWalletRepo) GetByIDForUpdate(_ context.Context, id int64) (*domain.Wallet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.get(id)
}

func (r *fakeWalletRepo) Lock(_ context.Context, id, amount int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.wallets[id]
	if !ok {
		return domain.ErrWalletNotFound
	}
	if w.Balance-w.LockedBalance < amount {
		return domain.ErrInsufficientFunds
	}
	w.LockedBalance += amount
	return nil
}

func (r *fakeWalletRepo) Unlock(_ context.Context, id, amount int64) error {
	if r.unlockErr != nil {
		return r.unlockErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.wallets[id]
	if !ok {
		return domain.ErrWalletNotFound
	}
	if w.LockedBalance < amount {
		return domain.ErrInsufficientFunds
	}
	w.LockedBalance -= amount
	return nil
}

func (r *fakeWalletRepo) Debit(_ context.Context, id, amount int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.wallets[id]
	if !ok {
		return domain.ErrWalletNotFound
	}
	if w.LockedBalance < amount || w.Balance < amount {
		return domain.ErrInsufficientFunds
	}
	w.Balance -= amount
	w.LockedBalance -= amount
	return nil
}

func (r *fakeWalletRepo) ListIDs(_ context.Context) ([]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]int64, 0, len(r.wallets))
	for id := range r.wallets {
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *fakeWalletRepo) WithTx(_ gateway.TransactionObject) gateway.WalletRepository { return r }

// ---- Razão ----

type fakeLedgerRepo struct {
	mu      sync.Mutex
	entries []domain.LedgerEntry
}

func newFakeLedgerRepo() *fakeLedgerRepo { return &fakeLedgerRepo{} }

func (r *fakeLedgerRepo) snapshot() func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	saved := append([]domain.LedgerEntry(nil), r.entries...)
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.entries = saved
	}
}

func (r *fakeLedgerRepo) Append(_ context.Context, entry *domain.LedgerEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeLedgerRepo) HasEntry(_ context.Context, walletID int64, kind domain.LedgerKind, ref domain.Reference) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entries {
		if e.WalletID == walletID && e.Kind == kind && e.ReferenceType == ref.Type && e.ReferenceID == ref.ID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeLedgerRepo) SumByWallet(_ context.Context, walletID int64) (gateway.LedgerSums, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var sums gateway.LedgerSums
	for _, e := range r.entries {
		if e.WalletID != walletID {
			continue
		}
		switch e.Kind {
		case domain.LedgerKindLock:
			sums.Lock += e.Amount
		case domain.LedgerKindUnlock:
			sums.Unlock += e.Amount
		case domain.LedgerKindDebit:
			sums.Debit += e.Amount
		}
	}
	return sums, nil
}

func (r *fakeLedgerRepo) ListByWallet(_ context.Context, walletID int64, limit, offset int32) ([]domain.LedgerEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.LedgerEntry
	for _, e := range r.entries {
		if e.WalletID == walletID {
			result = append(result, e)
		}
	}
	start := int(offset)
	if start > len(result) {
		return nil, nil
	}
	end := start + int(limit)
	if end > len(result) {
		end = len(result)
	}
	return result[start:end], nil
}

// countByKind é um helper dos testes, não faz parte do gateway.
func (r *fakeLedgerRepo) countByKind(kind domain.LedgerKind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.entries {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

func (r *fakeLedgerRepo) WithTx(_ gateway.TransactionObject) gateway.LedgerRepository { return r }

// ---- Reservas ----

type fakeReservationRepo struct {
	mu           sync.Mutex
	reservations map[string]*domain.Reservation

	createErr error // injeta falha na persistência da reserva
}

func newFakeReservationRepo() *fakeReservationRepo {
	return &fakeReservationRepo{reservations: map[string]*domain.Reservation{}}
}

func (r *fakeReservationRepo) snapshot() func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	saved := make(map[string]*domain.Reservation, len(r.reservations))
	for id, res := range r.reservations {
		cp := *res
		saved[id] = &cp
	}
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.reservations = saved
	}
}

func (r *fakeReservationRepo) Create(_ context.Context, reservation *domain.Reservation) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if reservation.CreatedAt.IsZero() {
		reservation.CreatedAt = time.Now()
	}
	cp := *reservation
	r.reservations[reservation.ID] = &cp
	return nil
}

func (r *fakeReservationRepo) get(id string) (*domain.Reservation, error) {
	res, ok := r.reservations[id]
	if !ok {
		return nil, domain.ErrReservationNotFound
	}
	cp := *res
	return &cp, nil
}

func (r *fakeReservationRepo) GetByID(_ context.Context, id string) (*domain.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.get(id)
}

func (r *fakeReservationRepo) GetByIDForUpdate(_ context.Context, id string) (*domain.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.get(id)
}

func (r *fakeReservationRepo) MarkCanceled(_ context.Context, id string, reason string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.reservations[id]
	if !ok {
		return domain.ErrReservationNotFound
	}
	if res.Status != domain.ReservationStatusReserved {
		return domain.ErrInvalidReservationState
	}
	res.Status = domain.ReservationStatusCanceled
	res.CanceledAt = &at
	if reason != "" {
		res.CancelReason = &reason
	}
	return nil
}

func (r *fakeReservationRepo) MarkConfirmed(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.reservations[id]
	if !ok {
		return domain.ErrReservationNotFound
	}
	if res.Status != domain.ReservationStatusReserved {
		return domain.ErrInvalidReservationState
	}
	res.Status = domain.ReservationStatusConfirmed
	return nil
}

func (r *fakeReservationRepo) WithTx(_ gateway.TransactionObject) gateway.ReservationRepository {
	return r
}

// ---- Pedidos ----

type fakeOrderRepo struct {
	mu     sync.Mutex
	orders map[string]*domain.Order
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: map[string]*domain.Order{}}
}

func (r *fakeOrderRepo) snapshot() func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	saved := make(map[string]*domain.Order, len(r.orders))
	for id, o := range r.orders {
		cp := *o
		cp.Items = append([]domain.OrderItem(nil), o.Items...)
		saved[id] = &cp
	}
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.orders = saved
	}
}

func (r *fakeOrderRepo) get(id string) (*domain.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	cp := *o
	cp.Items = append([]domain.OrderItem(nil), o.Items...)
	return &cp, nil
}

func (r *fakeOrderRepo) GetByID(_ context.Context, id string) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.get(id)
}

func (r *fakeOrderRepo) GetByIDForUpdate(_ context.Context, id string) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.get(id)
}

func (r *fakeOrderRepo) MarkCancelled(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return domain.ErrOrderNotFound
	}
	if o.PaymentStatus == domain.PaymentStatusCancelled {
		return domain.ErrOrderAlreadyCancelled
	}
	o.PaymentStatus = domain.PaymentStatusCancelled
	o.UpdatedAt = time.Now()
	return nil
}

func (r *fakeOrderRepo) WithTx(_ gateway.TransactionObject) gateway.OrderRepository { return r }

// ---- Catálogo ----

type fakeVariation struct {
	stock     int32
	available bool
}

type fakeProductRepo struct {
	mu       sync.Mutex
	products map[string]map[string]*fakeVariation

	failing map[string]error // "productID/sku" -> erro injetado
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{
		products: map[string]map[string]*fakeVariation{},
		failing:  map[string]error{},
	}
}

func (r *fakeProductRepo) seed(productID, sku string, stock int32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.products[productID] == nil {
		r.products[productID] = map[string]*fakeVariation{}
	}
	r.products[productID][sku] = &fakeVariation{stock: stock, available: stock > 0}
}

func (r *fakeProductRepo) RestoreStock(_ context.Context, productID, sku string, quantity int32) (gateway.RestockResult, error) {
	if err, ok := r.failing[productID+"/"+sku]; ok {
		return gateway.RestockResult{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	variations, ok := r.products[productID]
	if !ok {
		return gateway.RestockResult{}, domain.ErrProductNotFound
	}
	v, ok := variations[sku]
	if !ok {
		return gateway.RestockResult{}, domain.ErrVariationNotFound
	}
	before := v.stock
	v.stock += quantity
	v.available = true
	return gateway.RestockResult{StockBefore: before, StockAfter: v.stock}, nil
}

// ---- Shipments ----

type fakeShipmentRepo struct {
	mu        sync.Mutex
	shipments map[string]*domain.Shipment

	conflictOnce bool // força um ErrVersionConflict na próxima escrita
}

func newFakeShipmentRepo() *fakeShipmentRepo {
	return &fakeShipmentRepo{shipments: map[string]*domain.Shipment{}}
}

func copyShipment(s *domain.Shipment) *domain.Shipment {
	cp := *s
	cp.History = append([]domain.TrackingEvent(nil), s.History...)
	if s.DeliveredAt != nil {
		t := *s.DeliveredAt
		cp.DeliveredAt = &t
	}
	return &cp
}

func (r *fakeShipmentRepo) Create(_ context.Context, shipment *domain.Shipment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	shipment.Version = 1
	r.shipments[shipment.ID] = copyShipment(shipment)
	return nil
}

func (r *fakeShipmentRepo) GetByID(_ context.Context, id string) (*domain.Shipment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.shipments[id]
	if !ok {
		return nil, domain.ErrShipmentNotFound
	}
	return copyShipment(s), nil
}

func (r *fakeShipmentRepo) GetByCarrierRef(_ context.Context, carrierRef string) (*domain.Shipment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.shipments {
		if s.CarrierRef == carrierRef {
			return copyShipment(s), nil
		}
	}
	return nil, domain.ErrShipmentNotFound
}

func (r *fakeShipmentRepo) Update(_ context.Context, shipment *domain.Shipment, expectedVersion int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.conflictOnce {
		r.conflictOnce = false
		return domain.ErrVersionConflict
	}
	stored, ok := r.shipments[shipment.ID]
	if !ok {
		return domain.ErrShipmentNotFound
	}
	if stored.Version != expectedVersion {
		return domain.ErrVersionConflict
	}
	shipment.Version = expectedVersion + 1
	r.shipments[shipment.ID] = copyShipment(shipment)
	return nil
}

func (r *fakeShipmentRepo) ListActive(_ context.Context) ([]domain.Shipment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Shipment
	for _, s := range r.shipments {
		if !s.IsTerminal() {
			result = append(result, *copyShipment(s))
		}
	}
	return result, nil
}

// ---- Eventos ----

type publishedEvent struct {
	RoutingKey string
	Body       map[string]interface{}
}

type fakePublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *fakePublisher) Publish(_ context.Context, _, routingKey string, body interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	m, ok := body.(map[string]interface{})
	if !ok {
		return fmt.Errorf("unexpected event body type %T", body)
	}
	p.events = append(p.events, publishedEvent{RoutingKey: routingKey, Body: m})
	return nil
}

func (p *fakePublisher) byRoutingKey(key string) []publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var result []publishedEvent
	for _, e := range p.events {
		if e.RoutingKey == key {
			result = append(result, e)
		}
	}
	return result
}
