package vectorstore

import (
	"context"
	"log/slog"
)

// samplePosts is the bundled corpus used until real blog sources are
// ingested. IDs are stable so re-seeding stays idempotent.
var samplePosts = []Post{
	{
		ID:    "post_1",
		Title: "Introduction to Graph Neural Networks",
		Content: "Graph Neural Networks (GNNs) are a powerful class of deep learning models designed to work with graph-structured data. " +
			"Unlike traditional neural networks that operate on Euclidean data like images or text sequences, GNNs can handle non-Euclidean data " +
			"where relationships between entities are explicitly modeled as edges in a graph.\n\n" +
			"The key innovation of GNNs lies in their ability to perform message passing between nodes, allowing information to flow through the " +
			"graph structure. This makes them particularly effective for tasks like node classification, link prediction, and graph-level predictions.\n\n" +
			"Popular GNN architectures include Graph Convolutional Networks (GCNs), GraphSAGE, and Graph Attention Networks (GATs). " +
			"Each has its own approach to aggregating information from neighboring nodes.",
		Author: "AI Research Blog",
		Date:   "2024-01-15",
		Tags:   []string{"machine-learning", "graph-neural-networks", "deep-learning"},
	},
	{
		ID:    "post_2",
		Title: "Retrieval-Augmented Generation Explained",
		Content: "Retrieval-Augmented Generation (RAG) combines the power of large language models with external knowledge retrieval. " +
			"Instead of relying solely on the model's training data, RAG systems can access and incorporate relevant information from external " +
			"databases or document collections.\n\n" +
			"The RAG process typically involves three steps: 1) Retrieving relevant documents based on the input query, 2) Encoding both the query " +
			"and retrieved documents, and 3) Generating a response that incorporates the retrieved information.\n\n" +
			"This approach addresses some key limitations of pure language models, including hallucination and outdated information. " +
			"RAG systems can provide more accurate, up-to-date, and grounded responses by leveraging external knowledge sources.",
		Author: "ML Engineering Blog",
		Date:   "2024-02-10",
		Tags:   []string{"rag", "llm", "information-retrieval"},
	},
	{
		ID:    "post_3",
		Title: "Vector Databases and Semantic Search",
		Content: "Vector databases have emerged as a crucial component in modern AI applications, particularly for semantic search and " +
			"recommendation systems. These databases store high-dimensional vector representations of data, enabling similarity-based queries " +
			"that go beyond traditional keyword matching.\n\n" +
			"Popular vector databases include Pinecone, Weaviate, Chroma, and FAISS. Each offers different trade-offs in terms of performance, " +
			"scalability, and ease of use.\n\n" +
			"The key advantage of vector databases is their ability to perform semantic similarity search. Instead of matching exact keywords, " +
			"they can find conceptually similar content based on the vector representations learned by embedding models.",
		Author: "Data Engineering Weekly",
		Date:   "2024-02-20",
		Tags:   []string{"vector-database", "semantic-search", "embeddings"},
	},
	{
		ID:    "post_4",
		Title: "Building Chatbot Backends",
		Content: "Modern web frameworks have become a popular choice for building high-performance chatbot backends. " +
			"Automatic API documentation, strong typing, and concurrency support make them ideal for real-time applications.\n\n" +
			"When building a chatbot backend, key considerations include session management, rate limiting, and error handling. " +
			"Dependency injection makes it easy to manage shared resources like database connections and AI model clients.\n\n" +
			"For production deployments, chatbot backends can be easily containerized and deployed on platforms that provide managed GPU access " +
			"for AI applications.",
		Author: "Web Development Blog",
		Date:   "2024-03-01",
		Tags:   []string{"chatbot", "api", "backend"},
	},
	{
		ID:    "post_5",
		Title: "Svelte vs React: Modern Frontend Frameworks",
		Content: "Svelte has gained significant traction as an alternative to React for building user interfaces. Unlike React, Svelte is a " +
			"compile-time framework that generates vanilla JavaScript, resulting in smaller bundle sizes and better performance.\n\n" +
			"Key advantages of Svelte include its simple syntax, built-in state management, and excellent developer experience. SvelteKit, the " +
			"full-stack framework built on Svelte, provides features like server-side rendering, routing, and API endpoints.\n\n" +
			"For chat applications, Svelte's reactive nature makes it easy to handle real-time updates and manage conversation state. " +
			"The framework's small footprint is particularly beneficial for mobile users.",
		Author: "Frontend Focus",
		Date:   "2024-03-15",
		Tags:   []string{"svelte", "react", "frontend", "javascript"},
	},
}

// SeedSamplePosts ingests the bundled corpus when the collection is
// empty. An already-populated index is left untouched.
func (s *Store) SeedSamplePosts(ctx context.Context) error {
	if s.Stats().TotalDocuments > 0 {
		slog.Info("vectorstore already populated, skipping seed")
		return nil
	}
	slog.Info("seeding vectorstore with sample posts", "count", len(samplePosts))
	for _, post := range samplePosts {
		if err := s.UpsertPost(ctx, post); err != nil {
			return err
		}
	}
	return nil
}
