// Каталоги товаров по поставщикам. Живут только в памяти процесса:
// источником истины остаётся загружаемый файл.
package catalog

import (
	"sort"
	"sync"
)

// Product — запись каталога: артикул + отображаемое наименование.
// Наименование (после очистки загрузчиком) — это метка для fuzzy-поиска.
type Product struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Label — экстрактор сравниваемой метки для ядра сопоставления.
func (p Product) Label() string { return p.Name }

type Store struct {
	mu         sync.RWMutex
	bySupplier map[string][]Product
}

func NewStore() *Store {
	return &Store{bySupplier: make(map[string][]Product)}
}

// Replace — полная замена каталога поставщика (повторная загрузка файла).
func (s *Store) Replace(supplier string, products []Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bySupplier[supplier] = products
}

// Products возвращает копию среза: порядок кандидатов наблюдаем для
// сопоставления, и вызывающий не должен его мутировать под нами.
func (s *Store) Products(supplier string) ([]Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list, ok := s.bySupplier[supplier]
	if !ok {
		return nil, false
	}
	out := make([]Product, len(list))
	copy(out, list)
	return out, true
}

func (s *Store) Suppliers() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.bySupplier))
	for k := range s.bySupplier {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
