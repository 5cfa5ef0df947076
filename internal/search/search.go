package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/avolkov-dev/recipehub/internal/models"
)

// RecipeIndex is the Elasticsearch index holding recipe documents
const RecipeIndex = "recipes"

// RecipeDoc is the indexed projection of a recipe
type RecipeDoc struct {
	ID          uint   `json:"id"`
	AuthorID    uint   `json:"author_id"`
	Name        string `json:"name"`
	Text        string `json:"text"`
	CookingTime int    `json:"cooking_time"`
}

// IndexRecipe upserts the recipe document
func IndexRecipe(ctx context.Context, es *elasticsearch.Client, recipe *models.Recipe) error {
	doc := RecipeDoc{
		ID:          recipe.ID,
		AuthorID:    recipe.AuthorID,
		Name:        recipe.Name,
		Text:        recipe.Text,
		CookingTime: recipe.CookingTime,
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(doc); err != nil {
		return err
	}

	res, err := es.Index(RecipeIndex, &buf,
		es.Index.WithContext(ctx),
		es.Index.WithDocumentID(strconv.FormatUint(uint64(recipe.ID), 10)),
	)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index recipe %d: %s", recipe.ID, res.Status())
	}
	return nil
}

// DeleteRecipe removes the recipe document; a missing document is not an error
func DeleteRecipe(ctx context.Context, es *elasticsearch.Client, recipeID uint) error {
	res, err := es.Delete(RecipeIndex, strconv.FormatUint(uint64(recipeID), 10),
		es.Delete.WithContext(ctx),
	)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	return nil
}

// Search runs a fuzzy multi-match over recipe names and texts and returns the
// total hit count plus the matched documents for the requested page.
func Search(ctx context.Context, es *elasticsearch.Client, query string, from, size int) (int64, []RecipeDoc, error) {
	body := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":     query,
				"fields":    []string{"name^2", "text"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, err
	}

	res, err := es.Search(
		es.Search.WithContext(ctx),
		es.Search.WithIndex(RecipeIndex),
		es.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, err
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, fmt.Errorf("search failed: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source RecipeDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, err
	}

	docs := make([]RecipeDoc, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		docs[i] = hit.Source
	}
	return r.Hits.Total.Value, docs, nil
}
