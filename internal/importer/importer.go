// Package importer загружает сделки из JSON-файла.
package importer

import (
	"fmt"
	"io"
	"slices"

	jsoniter "github.com/json-iterator/go"

	"ltd_tracker/internal/domain/entity"
	"ltd_tracker/pkg/lox"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

type Store interface {
	AddDeal(input entity.DealInput) (entity.Deal, error)
}

// Read читает JSON-массив сделок. Поля id и refundDeadline, если они есть,
// игнорируются: хранилище назначает их само.
func Read(r io.Reader) ([]entity.DealInput, error) {
	var inputs []entity.DealInput

	if err := json.NewDecoder(r).Decode(&inputs); err != nil {
		return nil, fmt.Errorf("json.Decode: %w", err)
	}

	return inputs, nil
}

// Admit добавляет сделки в хранилище так, чтобы первая сделка файла
// оказалась первой в коллекции. Останавливается на первой невалидной.
func Admit(store Store, inputs []entity.DealInput) ([]entity.Deal, error) {
	reversed := slices.Clone(inputs)
	slices.Reverse(reversed)

	position := len(reversed)

	added, err := lox.MapErr(reversed, func(input entity.DealInput) (entity.Deal, error) {
		position--

		d, err := store.AddDeal(input)
		if err != nil {
			return entity.Deal{}, fmt.Errorf("deal #%d %q: %w", position+1, input.Name, err)
		}

		return d, nil
	})
	if err != nil {
		return nil, err
	}

	slices.Reverse(added)

	return added, nil
}
