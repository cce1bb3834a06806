// Package memory implementa los puertos de persistencia en proceso.
// Store.Run serializa las transacciones y restaura una copia del estado si fn falla,
// así los tests verifican atomicidad y conservación de contadores sin base de datos.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/Inventario-wms/internal/application/inventory"
	"github.com/jhoicas/Inventario-wms/internal/domain/entity"
)

var _ inventory.TxRunner = (*Store)(nil)

// Store estado completo en memoria.
type Store struct {
	mu   sync.RWMutex
	data *state
}

type state struct {
	storagePoints  map[string]entity.StoragePoint
	areas          map[string]entity.Area
	locations      map[string]entity.Location
	items          map[string]entity.ProductItem
	movements      []entity.StockMovement // orden de inserción
	products       map[string]entity.Product
	variants       map[string]entity.ProductVariant
	investigations map[string]entity.Investigation
	receptions     map[string]entity.Reception
	lines          []entity.VariantReception
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{data: &state{
		storagePoints:  map[string]entity.StoragePoint{},
		areas:          map[string]entity.Area{},
		locations:      map[string]entity.Location{},
		items:          map[string]entity.ProductItem{},
		products:       map[string]entity.Product{},
		variants:       map[string]entity.ProductVariant{},
		investigations: map[string]entity.Investigation{},
		receptions:     map[string]entity.Reception{},
	}}
}

func (s *state) clone() *state {
	c := &state{
		storagePoints:  make(map[string]entity.StoragePoint, len(s.storagePoints)),
		areas:          make(map[string]entity.Area, len(s.areas)),
		locations:      make(map[string]entity.Location, len(s.locations)),
		items:          make(map[string]entity.ProductItem, len(s.items)),
		movements:      append([]entity.StockMovement(nil), s.movements...),
		products:       make(map[string]entity.Product, len(s.products)),
		variants:       make(map[string]entity.ProductVariant, len(s.variants)),
		investigations: make(map[string]entity.Investigation, len(s.investigations)),
		receptions:     make(map[string]entity.Reception, len(s.receptions)),
		lines:          append([]entity.VariantReception(nil), s.lines...),
	}
	for k, v := range s.storagePoints {
		c.storagePoints[k] = v
	}
	for k, v := range s.areas {
		c.areas[k] = v
	}
	for k, v := range s.locations {
		v.StockValue = append([]entity.CurrencyAmount(nil), v.StockValue...)
		c.locations[k] = v
	}
	for k, v := range s.items {
		c.items[k] = v
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.variants {
		c.variants[k] = v
	}
	for k, v := range s.investigations {
		c.investigations[k] = v
	}
	for k, v := range s.receptions {
		c.receptions[k] = v
	}
	return c
}

// view acceso al estado: fuera de tx toma el mutex en cada llamada; dentro de Run ya lo tiene tomado.
type view struct {
	s    *Store
	inTx bool
}

func (v view) read(fn func(st *state)) {
	if !v.inTx {
		v.s.mu.RLock()
		defer v.s.mu.RUnlock()
	}
	fn(v.s.data)
}

func (v view) write(fn func(st *state) error) error {
	if !v.inTx {
		v.s.mu.Lock()
		defer v.s.mu.Unlock()
	}
	return fn(v.s.data)
}

func (v view) repos() inventory.Repos {
	return inventory.Repos{
		StoragePoints:  storagePointRepo{v},
		Areas:          areaRepo{v},
		Locations:      locationRepo{v},
		Items:          itemRepo{v},
		Movements:      movementRepo{v},
		Products:       productRepo{v},
		Investigations: investigationRepo{v},
		Receptions:     receptionRepo{v},
	}
}

// Repos repositorios fuera de transacción.
func (s *Store) Repos() inventory.Repos {
	return view{s: s}.repos()
}

// Run ejecuta fn con acceso exclusivo; si fn falla (o entra en pánico) el estado vuelve a la copia previa.
func (s *Store) Run(ctx context.Context, fn func(repos inventory.Repos) error) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.data.clone()
	defer func() {
		if r := recover(); r != nil {
			s.data = snapshot
			panic(r)
		}
		if err != nil {
			s.data = snapshot
		}
	}()
	return fn(view{s: s, inTx: true}.repos())
}
