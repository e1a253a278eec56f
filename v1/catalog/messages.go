package catalog

import "fmt"

// CollectionCreatedMessage confirms a created collection.
func CollectionCreatedMessage(name string) string {
	return fmt.Sprintf("Collection %s created successfully.", name)
}

// CollectionDeletedMessage confirms a deleted collection.
func CollectionDeletedMessage(name string) string {
	return fmt.Sprintf("Deleted collection '%s'.", name)
}

// ItemAddedMessage confirms an item added to collection name.
func ItemAddedMessage(name string) string {
	return fmt.Sprintf("Item added to collection '%s'.", name)
}

// ItemDeletedMessage confirms the deletion of documentID from collection name.
func ItemDeletedMessage(name, documentID string) string {
	return fmt.Sprintf("Item with document_id %s deleted from collection %s.", documentID, name)
}
