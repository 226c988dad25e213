package layout

import "catalog-studio/models"

// TotalPages returns ceil(totalCount/itemsPerPage), never less than 1
func TotalPages(totalCount, itemsPerPage int) int {
	if itemsPerPage < 1 {
		itemsPerPage = 1
	}
	if totalCount <= 0 {
		return 1
	}
	return (totalCount + itemsPerPage - 1) / itemsPerPage
}

// SlicePage returns the page with the given number cut out of the full product list.
// A page beyond the data yields an empty item list.
func SlicePage(all []models.Product, pageNumber, itemsPerPage int) models.Page {
	if itemsPerPage < 1 {
		itemsPerPage = 1
	}
	if pageNumber < 1 {
		pageNumber = 1
	}

	start := (pageNumber - 1) * itemsPerPage
	if start >= len(all) {
		return models.Page{PageNumber: pageNumber, Items: []models.Product{}}
	}
	end := start + itemsPerPage
	if end > len(all) {
		end = len(all)
	}

	items := make([]models.Product, end-start)
	copy(items, all[start:end])
	return models.Page{PageNumber: pageNumber, Items: items}
}
