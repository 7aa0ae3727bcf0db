package graph

// Schema declares the authoritative shape of every operation the resolver
// layer implements. Parsing fails at startup if a resolver signature and its
// declaration disagree.
const Schema = `
schema {
  query: Query
  mutation: Mutation
}

scalar Time

type User {
  id: ID!
  name: String!
  email: String!
}

type Product {
  id: ID!
  name: String!
  price: Float!
}

type UserProduct {
  id: ID!
  userId: Int
  productId: Int
  quantityOwned: Int!

  user: User
  product: Product
}

type Todo {
  id: ID!
  label: String!
  checked: Boolean!
  createdAt: Time!
  updatedAt: Time!
}

type AuthPayload {
  token: String!
  user: User!
}

type Query {
  users: [User!]!
  user(id: ID!): User
  products: [Product!]!
  product(id: ID!): Product
  userProducts: [UserProduct!]!
  userProduct(id: ID!): UserProduct
  todos: [Todo!]!
  todo(id: ID!): Todo
}

type Mutation {
  login(email: String!, password: String!): AuthPayload!
  addUser(name: String!, email: String!, password: String!): User!
  updatePassword(userId: ID!, currentPassword: String!, newPassword: String!): User!
  addTodo(label: String!): Todo!
  updateTodo(id: ID!, label: String, checked: Boolean): Todo!
  deleteTodo(id: ID!): Todo!
}
`
