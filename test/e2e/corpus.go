// Package e2e provides end-to-end tests over a corpus of documents and
// question test cases.
package e2e

import (
	"fmt"
	"strings"
)

// E2EDocument is a document entry in the E2E corpus.
type E2EDocument struct {
	ID      string
	Content string
}

// QuestionCase defines a question and the document ID(s) whose chunks must
// appear among the retrieved sources.
type QuestionCase struct {
	Question       string
	ExpectedDocIDs []string
	Description    string
}

// Corpus holds documents and question test cases for E2E tests.
type Corpus struct {
	Documents      []E2EDocument
	Cases          []QuestionCase
	TotalDocs      int
	TotalQuestions int
}

// BuildCorpus returns a corpus of 40 documents with varied content and one
// question test case per document. Each document carries a unique signature
// phrase so questions can assert the correct document's chunks come back.
func BuildCorpus() *Corpus {
	docs, cases := buildDocumentsAndCases()
	return &Corpus{
		Documents:      docs,
		Cases:          cases,
		TotalDocs:      len(docs),
		TotalQuestions: len(cases),
	}
}

func buildDocumentsAndCases() ([]E2EDocument, []QuestionCase) {
	topics := []struct {
		phrase  string
		content string
	}{
		{"Python programming language", "Python is a high-level programming language. Python programming language is used for web development and data science."},
		{"Kubernetes container orchestration", "Kubernetes is an open-source container orchestration platform. Kubernetes container orchestration automates deployment and scaling."},
		{"Go golang concurrency", "Go is a statically typed language. Go golang concurrency is achieved with goroutines and channels."},
		{"PostgreSQL relational database", "PostgreSQL is an advanced relational database. PostgreSQL relational database supports JSON and full-text search."},
		{"Docker container images", "Docker enables building and shipping applications. Docker container images are portable across environments."},
		{"machine learning algorithms", "Machine learning is a subset of AI. Machine learning algorithms learn patterns from data."},
		{"neural network deep learning", "Neural networks are inspired by the brain. Neural network deep learning powers modern AI."},
		{"REST API endpoints", "REST is an architectural style for APIs. REST API endpoints use HTTP methods and status codes."},
		{"GraphQL query language", "GraphQL is a query language for APIs. GraphQL query language lets clients request exactly what they need."},
		{"Redis in-memory cache", "Redis is an in-memory data store. Redis in-memory cache is used for sessions and caching."},
		{"Elasticsearch full-text search", "Elasticsearch is a search and analytics engine. Elasticsearch full-text search scales horizontally."},
		{"Terraform infrastructure as code", "Terraform manages cloud infrastructure. Terraform infrastructure as code is declarative."},
		{"Prometheus monitoring metrics", "Prometheus is a monitoring system. Prometheus monitoring metrics are time-series based."},
		{"gRPC remote procedure calls", "gRPC is a high-performance RPC framework. gRPC remote procedure calls use HTTP/2 and protobuf."},
		{"OAuth authorization framework", "OAuth is an authorization framework. OAuth authorization framework enables secure delegated access."},
		{"Git version control", "Git is a distributed version control system. Git version control tracks changes in source code."},
		{"microservices architecture", "Microservices split an app into small services. Microservices architecture enables independent deployment."},
		{"Apache Kafka streaming", "Apache Kafka is a distributed event stream platform. Apache Kafka streaming handles high throughput."},
		{"Nginx reverse proxy", "Nginx is a web server and reverse proxy. Nginx reverse proxy balances load and serves static files."},
		{"cryptography encryption decryption", "Cryptography secures data. Cryptography encryption decryption uses keys and algorithms."},
		{"load balancing high availability", "Load balancers distribute traffic. Load balancing high availability prevents single points of failure."},
		{"caching strategy cache invalidation", "Caching improves performance. Caching strategy cache invalidation must be designed carefully."},
		{"event sourcing CQRS", "Event sourcing stores state as events. Event sourcing CQRS separates read and write models."},
		{"semantic search embeddings", "Semantic search uses meaning not just keywords. Semantic search embeddings capture context."},
		{"keyword search full-text", "Keyword search matches terms. Keyword search full-text uses inverted indexes."},
		{"vector database similarity", "Vector databases store embeddings. Vector database similarity uses cosine or dot product."},
		{"chunking strategy overlap", "Chunking splits long documents. Chunking strategy overlap preserves context."},
		{"retrieval augmented generation", "Retrieval grounds language models in documents. Retrieval augmented generation combines search and text generation."},
		{"prompt engineering few-shot", "Prompts guide model behavior. Prompt engineering few-shot uses examples in the prompt."},
		{"message queue asynchronous", "Message queues decouple producers and consumers. Message queue asynchronous enables scaling."},
		{"rate limiting throttling", "Rate limiting protects APIs. Rate limiting throttling can be per-user or global."},
		{"circuit breaker resilience", "Circuit breaker stops cascading failures. Circuit breaker resilience pattern fails fast."},
		{"logging structured logs", "Structured logging aids debugging. Logging structured logs use JSON or key-value."},
		{"distributed tracing spans", "Tracing follows requests across services. Distributed tracing spans show latency breakdown."},
		{"password hashing bcrypt", "Passwords must be hashed. Password hashing bcrypt is resistant to rainbow tables."},
		{"backup strategy recovery", "Backups protect against data loss. Backup strategy recovery includes RTO and RPO."},
		{"horizontal scaling sharding", "Horizontal scaling adds more nodes. Horizontal scaling sharding partitions data."},
		{"graceful shutdown signal", "Graceful shutdown drains connections. Graceful shutdown signal handles SIGTERM."},
		{"secrets management vault", "Secrets must not be in code. Secrets management vault encrypts and audits."},
		{"incident response runbook", "Incidents need a clear process. Incident response runbook defines steps."},
	}

	docs := make([]E2EDocument, 0, len(topics))
	cases := make([]QuestionCase, 0, len(topics))
	for i, tp := range topics {
		id := fmt.Sprintf("doc-%03d", i)
		docs = append(docs, E2EDocument{ID: id, Content: tp.content})
		cases = append(cases, QuestionCase{
			Question:       tp.phrase,
			ExpectedDocIDs: []string{id},
			Description:    fmt.Sprintf("question %q finds %s", tp.phrase, id),
		})
	}
	return docs, cases
}

// containsPhrase reports whether the document's content contains the phrase,
// case-insensitively.
func containsPhrase(doc E2EDocument, phrase string) bool {
	return strings.Contains(strings.ToLower(doc.Content), strings.ToLower(phrase))
}
