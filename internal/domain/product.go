package domain

// Variation é uma opção vendável do produto (numeração/tamanho), com o seu
// próprio estoque. Invariante pós-reconciliação: Stock >= 0 e
// Available == (Stock > 0).
type Variation struct {
	SKU       string
	Stock     int32
	Available bool
}

// Product vive como documento no Mongo com as variações embutidas. As
// mutações de estoque NUNCA reescrevem o array inteiro: cada variação é
// endereçada pelo SKU com incremento atômico (ver ProductRepository).
type Product struct {
	ID         string
	Name       string
	Variations []Variation
}
